package mealplan

import (
	"fmt"
	"strings"
)

const mealPlanExample = `{
  "weeklyPlan": [
    {
      "day": 1,
      "meals": [
        {
          "mealType": "BREAKFAST",
          "name": "Oatmeal with Berries and Almonds",
          "calories": 350,
          "protein": 12.0,
          "carbs": 55.0,
          "fat": 10.0,
          "ingredients": ["1 cup oats", "1/2 cup blueberries", "10 almonds", "1 tsp honey"]
        },
        {
          "mealType": "LUNCH",
          "name": "Grilled Chicken Salad",
          "calories": 450,
          "protein": 35.0,
          "carbs": 30.0,
          "fat": 18.0,
          "ingredients": ["150g chicken breast", "2 cups mixed greens", "1/2 avocado", "olive oil dressing"]
        },
        {
          "mealType": "DINNER",
          "name": "Salmon with Quinoa and Broccoli",
          "calories": 500,
          "protein": 38.0,
          "carbs": 45.0,
          "fat": 20.0,
          "ingredients": ["150g salmon fillet", "1 cup cooked quinoa", "1 cup steamed broccoli", "lemon"]
        },
        {
          "mealType": "SNACK",
          "name": "Greek Yogurt with Honey",
          "calories": 150,
          "protein": 15.0,
          "carbs": 18.0,
          "fat": 3.0,
          "ingredients": ["200g Greek yogurt", "1 tbsp honey"]
        }
      ]
    }
  ]
}`

const shoppingListExample = `{
  "items": [
    {
      "name": "Chicken Breast",
      "quantity": "2 lbs",
      "category": "Proteins"
    },
    {
      "name": "Greek Yogurt",
      "quantity": "3 containers (200g each)",
      "category": "Dairy"
    },
    {
      "name": "Oats",
      "quantity": "1 large container",
      "category": "Grains"
    }
  ]
}`

const nutritionExample = `{
  "foodName": "name of the food product",
  "calories": 0,
  "protein": 0.0,
  "carbs": 0.0,
  "fat": 0.0,
  "servingSize": "serving size description",
  "confidence": "high"
}`

// BuildMealPlanPrompt renders the 7-day plan request for a profile and calorie target
func BuildMealPlanPrompt(p PromptProfile, targetCalories int) string {
	var b strings.Builder
	b.WriteString("You are a professional nutritionist and meal planner. Create a detailed 7-day meal plan.\n\n")

	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Age: %d years\n", p.Age)
	fmt.Fprintf(&b, "- Height: %.1f cm\n", p.HeightCm)
	fmt.Fprintf(&b, "- Current Weight: %.1f kg\n", p.CurrentWeightKg)
	fmt.Fprintf(&b, "- Target Weight: %.1f kg\n", p.TargetWeightKg)
	fmt.Fprintf(&b, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "- Activity Level: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "- Daily Calorie Target: %d kcal\n\n", targetCalories)

	b.WriteString("Requirements:\n")
	b.WriteString("- Create exactly 7 days of meals (Day 1 to Day 7)\n")
	b.WriteString("- Each day MUST have: Breakfast, Lunch, Dinner, and Snack\n")
	fmt.Fprintf(&b, "- Total daily calories should be close to %d kcal (±100 kcal)\n", targetCalories)
	b.WriteString("- Meals should be realistic, easy to prepare, healthy, and diverse\n")
	b.WriteString("- Include accurate macronutrients (protein, carbs, fat) for each meal\n")
	fmt.Fprintf(&b, "- For %s: adjust protein/carb ratios accordingly\n", p.Goal)
	b.WriteString("- Include ingredient lists for shopping\n\n")

	b.WriteString("Return ONLY a valid JSON object (no markdown, no extra text) with this EXACT structure:\n")
	b.WriteString(mealPlanExample)
	b.WriteString("\n\nGenerate all 7 days following this exact format.")
	return b.String()
}

// BuildShoppingListPrompt asks for the ingredients to be consolidated into a categorised list
func BuildShoppingListPrompt(ingredients []string) string {
	var b strings.Builder
	b.WriteString("Based on these ingredients from a 7-day meal plan, create a consolidated shopping list.\n\n")
	b.WriteString("All ingredients:\n")
	b.WriteString(strings.Join(ingredients, "\n"))
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("- Combine duplicate ingredients and sum quantities intelligently\n")
	fmt.Fprintf(&b, "- Organize by category: %s\n", strings.Join(ShoppingCategories, ", "))
	b.WriteString("- Use practical quantities (e.g., \"2 lbs chicken breast\", \"1 dozen eggs\")\n")
	b.WriteString("- Round up to purchase-friendly amounts\n\n")
	b.WriteString("Return ONLY a valid JSON object (no markdown) with this structure:\n")
	b.WriteString(shoppingListExample)
	return b.String()
}

// BuildNutritionExtractionPrompt asks the model to read nutrition facts out of label text
func BuildNutritionExtractionPrompt(labelText string) string {
	var b strings.Builder
	b.WriteString("You are a nutrition expert. Analyze this text extracted from a food label and extract accurate nutrition information.\n\n")
	b.WriteString("Text from food label:\n")
	b.WriteString(labelText)
	b.WriteString("\n\nExtract and return ONLY a JSON object with this EXACT format (no markdown, no extra text):\n")
	b.WriteString(nutritionExample)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- foodName should be the product name from the label\n")
	b.WriteString("- If a value is not clearly visible, use 0\n")
	b.WriteString("- All macros (protein, carbs, fat) should be in grams\n")
	b.WriteString("- Calories should be kcal (kilocalories)\n")
	b.WriteString("- confidence should be \"high\", \"medium\", or \"low\" based on text clarity\n")
	b.WriteString("- Return ONLY valid JSON, no extra explanation")
	return b.String()
}

// FlattenIngredients splits comma-joined quantity strings into single trimmed ingredients
func FlattenIngredients(quantities []string) []string {
	var out []string
	for _, q := range quantities {
		for _, part := range strings.Split(q, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
