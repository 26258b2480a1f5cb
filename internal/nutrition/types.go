package nutrition

import (
	"fmt"
	"strings"
)

// Gender selects the constant term of the BMR equation
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel is the five-step activity scale used for TDEE
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "sedentary"
	LightlyActive    ActivityLevel = "lightly_active"
	ModeratelyActive ActivityLevel = "moderately_active"
	VeryActive       ActivityLevel = "very_active"
	ExtremelyActive  ActivityLevel = "extremely_active"
)

// Goal is the user's weight goal
type Goal string

const (
	GoalWeightLoss    Goal = "weight_loss"
	GoalWeightGain    Goal = "weight_gain"
	GoalMuscleGain    Goal = "muscle_gain"
	GoalGeneralHealth Goal = "general_health"
)

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseGender accepts any casing of male, female or other
func ParseGender(s string) (Gender, error) {
	switch g := Gender(normalize(s)); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ParseActivityLevel accepts "MODERATELY_ACTIVE", "moderately-active" and similar spellings
func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch a := ActivityLevel(normalize(s)); a {
	case Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtremelyActive:
		return a, nil
	}
	return "", fmt.Errorf("unknown activity level %q", s)
}

// ParseGoal accepts "WEIGHT_LOSS", "weight loss" and similar spellings
func ParseGoal(s string) (Goal, error) {
	switch g := Goal(normalize(s)); g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleGain, GoalGeneralHealth:
		return g, nil
	}
	return "", fmt.Errorf("unknown goal %q", s)
}

// Macros holds daily macronutrient targets in grams
type Macros struct {
	ProteinG int  `json:"protein_g"`
	CarbsG   int  `json:"carbs_g"`
	FatG     int  `json:"fat_g"`
	Clamped  bool `json:"clamped,omitempty"`
}

// Targets is the full result of a profile calculation
type Targets struct {
	Age            int     `json:"age"`
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	DailyCalories  int     `json:"daily_calories"`
	Macros         Macros  `json:"macros"`
	TargetWeightKg float64 `json:"target_weight_kg"`
}
