package mealplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrSchemaMismatch    = errors.New("response does not match expected schema")
)

// SchemaMismatchError names the first field that was missing or invalid
type SchemaMismatchError struct {
	Field  string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s: %s", ErrSchemaMismatch, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: missing %s", ErrSchemaMismatch, e.Field)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// ExtractJSONPayload strips markdown fences and returns the text between the
// first '{' and the last '}'. Without braces it still returns the trimmed text,
// together with ErrMalformedResponse.
func ExtractJSONPayload(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return cleaned, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return cleaned[start : end+1], nil
}

type rawMeal struct {
	MealType    *string  `json:"mealType"`
	Name        *string  `json:"name"`
	Calories    *float64 `json:"calories"`
	Protein     *float64 `json:"protein"`
	Carbs       *float64 `json:"carbs"`
	Fat         *float64 `json:"fat"`
	Ingredients []string `json:"ingredients"`
}

type rawDay struct {
	Day   *int       `json:"day"`
	Meals *[]rawMeal `json:"meals"`
}

type rawPlan struct {
	WeeklyPlan *[]rawDay `json:"weeklyPlan"`
}

// ParseWeeklyMealPlan decodes a {"weeklyPlan": [...]} document
func ParseWeeklyMealPlan(payload string) (*WeeklyMealPlan, error) {
	var raw rawPlan
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}
	if raw.WeeklyPlan == nil || len(*raw.WeeklyPlan) == 0 {
		return nil, &SchemaMismatchError{Field: "weeklyPlan"}
	}

	plan := &WeeklyMealPlan{Days: make([]DailyMealPlan, 0, len(*raw.WeeklyPlan))}
	for i, d := range *raw.WeeklyPlan {
		if d.Day == nil {
			return nil, &SchemaMismatchError{Field: fmt.Sprintf("weeklyPlan[%d].day", i)}
		}
		if d.Meals == nil {
			return nil, &SchemaMismatchError{Field: fmt.Sprintf("weeklyPlan[%d].meals", i)}
		}

		day := DailyMealPlan{Day: *d.Day, Meals: make([]PlannedMeal, 0, len(*d.Meals))}
		for j, m := range *d.Meals {
			meal, err := m.toPlannedMeal(fmt.Sprintf("weeklyPlan[%d].meals[%d]", i, j))
			if err != nil {
				return nil, err
			}
			day.Meals = append(day.Meals, meal)
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, nil
}

func (m rawMeal) toPlannedMeal(path string) (PlannedMeal, error) {
	switch {
	case m.MealType == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".mealType"}
	case m.Name == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".name"}
	case m.Calories == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".calories"}
	case m.Protein == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".protein"}
	case m.Carbs == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".carbs"}
	case m.Fat == nil:
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".fat"}
	}

	mealType, err := ParseMealType(*m.MealType)
	if err != nil {
		return PlannedMeal{}, &SchemaMismatchError{Field: path + ".mealType", Reason: err.Error()}
	}

	ingredients := m.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return PlannedMeal{
		MealType:    mealType,
		Name:        *m.Name,
		Calories:    int(*m.Calories),
		ProteinG:    *m.Protein,
		CarbsG:      *m.Carbs,
		FatG:        *m.Fat,
		Ingredients: ingredients,
	}, nil
}

type rawItem struct {
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
	Category string  `json:"category"`
}

// ParseShoppingList decodes a {"items": [...]} document. Items start unchecked.
func ParseShoppingList(payload string) ([]ShoppingItem, error) {
	var raw struct {
		Items *[]rawItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}
	if raw.Items == nil {
		return nil, &SchemaMismatchError{Field: "items"}
	}

	items := make([]ShoppingItem, 0, len(*raw.Items))
	for i, it := range *raw.Items {
		if it.Name == nil {
			return nil, &SchemaMismatchError{Field: fmt.Sprintf("items[%d].name", i)}
		}
		if it.Quantity == nil {
			return nil, &SchemaMismatchError{Field: fmt.Sprintf("items[%d].quantity", i)}
		}
		category := strings.TrimSpace(it.Category)
		if category == "" {
			category = "Other"
		}
		items = append(items, ShoppingItem{
			Name:     *it.Name,
			Quantity: *it.Quantity,
			Category: category,
		})
	}
	return items, nil
}

// ParseNutritionExtraction is lenient: anything missing or unreadable falls back to a default.
func ParseNutritionExtraction(payload string) NutritionInfo {
	info := NutritionInfo{
		FoodName:    "Unknown Food",
		ServingSize: "1 serving",
		Confidence:  "medium",
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return info
	}

	if s, ok := raw["foodName"].(string); ok && strings.TrimSpace(s) != "" {
		info.FoodName = s
	}
	if s, ok := raw["servingSize"].(string); ok && strings.TrimSpace(s) != "" {
		info.ServingSize = s
	}
	if s, ok := raw["confidence"].(string); ok {
		switch c := strings.ToLower(strings.TrimSpace(s)); c {
		case "high", "medium", "low":
			info.Confidence = c
		}
	}
	info.Calories = int(number(raw["calories"]))
	info.ProteinG = number(raw["protein"])
	info.CarbsG = number(raw["carbs"])
	info.FatG = number(raw["fat"])
	return info
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return n
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil && f > 0 {
			return f
		}
	}
	return 0
}
