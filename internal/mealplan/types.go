package mealplan

import (
	"fmt"
	"strings"
)

// MealType is one of the four daily meal slots
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the slots in the order a day is served
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

// ParseMealType maps "BREAKFAST", "Breakfast", "breakfast" etc. onto a MealType
func ParseMealType(s string) (MealType, error) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(s))); m {
	case Breakfast, Lunch, Dinner, Snack:
		return m, nil
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// PlannedMeal is one meal proposed by the generator
type PlannedMeal struct {
	MealType    MealType `json:"meal_type"`
	Name        string   `json:"name"`
	Calories    int      `json:"calories"`
	ProteinG    float64  `json:"protein_g"`
	CarbsG      float64  `json:"carbs_g"`
	FatG        float64  `json:"fat_g"`
	Ingredients []string `json:"ingredients"`
}

// Quantity joins the ingredient list the way it is stored on a meal row
func (m PlannedMeal) Quantity() string {
	return strings.Join(m.Ingredients, ", ")
}

// DailyMealPlan is one numbered day of a plan
type DailyMealPlan struct {
	Day   int           `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

// TotalCalories sums the day's meals
func (d DailyMealPlan) TotalCalories() int {
	total := 0
	for _, m := range d.Meals {
		total += m.Calories
	}
	return total
}

// WeeklyMealPlan is the parsed generator output
type WeeklyMealPlan struct {
	Days []DailyMealPlan `json:"days"`
}

// ShoppingItem is one consolidated line of a shopping list
type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

// ShoppingCategories are the groups the shopping prompt asks for
var ShoppingCategories = []string{"Proteins", "Vegetables", "Fruits", "Grains", "Dairy", "Pantry", "Other"}

// NutritionInfo is what a food label analysis yields
type NutritionInfo struct {
	FoodName    string  `json:"food_name"`
	Calories    int     `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	ServingSize string  `json:"serving_size"`
	Confidence  string  `json:"confidence"`
}

// PromptProfile is the slice of a user profile that goes into a meal plan prompt
type PromptProfile struct {
	Gender          string
	Age             int
	HeightCm        float64
	CurrentWeightKg float64
	TargetWeightKg  float64
	Goal            string
	ActivityLevel   string
}
