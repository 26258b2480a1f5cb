package nutrition

import (
	"fmt"
	"log"
	"time"
)

// BMR constant for GenderOther, the midpoint between the male (+5) and female (-161) terms
const otherGenderOffset = -80.0

// DefaultAge is used when a profile has no date of birth
const DefaultAge = 30

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:        1.2,
	LightlyActive:    1.375,
	ModeratelyActive: 1.55,
	VeryActive:       1.725,
	ExtremelyActive:  1.9,
}

// CalculateBMR returns the Mifflin-St Jeor basal metabolic rate in kcal/day
func CalculateBMR(weightKg, heightCm float64, age int, gender Gender) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch gender {
	case GenderMale:
		return base + 5
	case GenderFemale:
		return base - 161
	default:
		return base + otherGenderOffset
	}
}

// CalculateTDEE scales the BMR by the activity multiplier
func CalculateTDEE(bmr float64, level ActivityLevel) (float64, error) {
	m, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActivityLevel, level)
	}
	return bmr * m, nil
}

// CalculateDailyCalorieTarget adjusts the TDEE for the goal. The result is
// truncated to whole kcal and is always at least 1.
func CalculateDailyCalorieTarget(tdee float64, goal Goal, targetWeightKg, currentWeightKg float64) int {
	var target float64
	switch goal {
	case GoalWeightLoss:
		if currentWeightKg-targetWeightKg > 10 {
			target = tdee - 750
		} else {
			target = tdee - 500
		}
	case GoalWeightGain:
		target = tdee + 400
	case GoalMuscleGain:
		target = tdee + 300
	default:
		target = tdee
	}

	if t := int(target); t > 0 {
		return t
	}
	return 1
}

// CalculateMacros splits a calorie target into protein, fat and carbs.
// Carbs take whatever calories remain and never go below zero.
func CalculateMacros(calorieTarget int, goal Goal, weightKg float64) Macros {
	var proteinPerKg, fatShare float64
	switch goal {
	case GoalWeightLoss:
		proteinPerKg, fatShare = 2.0, 0.25
	case GoalMuscleGain:
		proteinPerKg, fatShare = 2.2, 0.25
	default:
		proteinPerKg, fatShare = 1.6, 0.30
	}

	protein := int(weightKg * proteinPerKg)
	fat := int(float64(calorieTarget) * fatShare / 9)
	carbs := (calorieTarget - protein*4 - fat*9) / 4

	m := Macros{ProteinG: protein, FatG: fat, CarbsG: carbs}
	if carbs < 0 {
		log.Printf("[CalorieEngine] protein and fat exceed %d kcal target, clamping carbs from %dg to 0", calorieTarget, carbs)
		m.CarbsG = 0
		m.Clamped = true
	}
	return m
}

// Age counts calendar years between the birth date and now
func Age(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if age < 0 {
		return 0
	}
	return age
}

// ProfileInput carries the profile fields the engine needs. Zero values mean absent.
type ProfileInput struct {
	WeightKg       float64
	HeightCm       float64
	Gender         Gender
	DateOfBirth    *time.Time
	TargetWeightKg float64
	ActivityLevel  ActivityLevel
	Goal           Goal
}

// ComputeTargets runs BMR, TDEE, calorie target and macros for a profile
func ComputeTargets(in ProfileInput, now time.Time) (Targets, error) {
	if in.WeightKg <= 0 {
		return Targets{}, &MissingInputError{Field: "weight"}
	}
	if in.HeightCm <= 0 {
		return Targets{}, &MissingInputError{Field: "height"}
	}
	if in.Gender == "" {
		return Targets{}, &MissingInputError{Field: "gender"}
	}

	age := DefaultAge
	if in.DateOfBirth != nil {
		age = Age(*in.DateOfBirth, now)
	}
	targetWeight := in.TargetWeightKg
	if targetWeight <= 0 {
		targetWeight = in.WeightKg
	}
	level := in.ActivityLevel
	if level == "" {
		level = ModeratelyActive
	}
	goal := in.Goal
	if goal == "" {
		goal = GoalGeneralHealth
	}

	bmr := CalculateBMR(in.WeightKg, in.HeightCm, age, in.Gender)
	tdee, err := CalculateTDEE(bmr, level)
	if err != nil {
		return Targets{}, err
	}
	calories := CalculateDailyCalorieTarget(tdee, goal, targetWeight, in.WeightKg)

	return Targets{
		Age:            age,
		BMR:            bmr,
		TDEE:           tdee,
		DailyCalories:  calories,
		Macros:         CalculateMacros(calories, goal, in.WeightKg),
		TargetWeightKg: targetWeight,
	}, nil
}
