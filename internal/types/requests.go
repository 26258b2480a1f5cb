package types

import (
	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileRequest carries the profile fields to change. Nil fields are left alone.
type UpdateProfileRequest struct {
	Name               *string  `json:"name"`
	Gender             *string  `json:"gender"`
	DateOfBirth        *string  `json:"date_of_birth"`
	HeightCm           *float64 `json:"height_cm"`
	CurrentWeightKg    *float64 `json:"current_weight_kg"`
	TargetWeightKg     *float64 `json:"target_weight_kg"`
	Goal               *string  `json:"goal"`
	ActivityLevel      *string  `json:"activity_level"`
	DailyWaterTargetMl *int     `json:"daily_water_target_ml"`
}

// LogMealRequest represents a meal the user ate
type LogMealRequest struct {
	MealType string  `json:"meal_type" binding:"required"`
	FoodName string  `json:"food_name" binding:"required"`
	Calories int     `json:"calories" binding:"min=0"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Quantity string  `json:"quantity"`
	Source   string  `json:"source"`
}

// LogWaterRequest represents a glass of water
type LogWaterRequest struct {
	AmountMl int `json:"amount_ml"`
}

// LogWeightRequest records a weigh-in. Date defaults to today.
type LogWeightRequest struct {
	WeightKg float64 `json:"weight_kg"`
	Date     string  `json:"date"`
}

// UpdateDailyLogRequest sets the optional wellness fields of a day
type UpdateDailyLogRequest struct {
	StepCount     *int     `json:"step_count"`
	SleepHours    *float64 `json:"sleep_hours"`
	WellnessScore *int     `json:"wellness_score"`
	Notes         *string  `json:"notes"`
}

// ExtractNutritionRequest carries text recognised from a nutrition label
type ExtractNutritionRequest struct {
	Text string `json:"text" binding:"required"`
}

// RewardDelta reports what a logging action earned
type RewardDelta struct {
	PointsAwarded  int            `json:"points_awarded"`
	TotalPoints    int            `json:"total_points"`
	StreakDays     int            `json:"streak_days"`
	UnlockedBadges []models.Badge `json:"unlocked_badges,omitempty"`
}

// LogMealResponse is returned by LogMeal
type LogMealResponse struct {
	Meal   *models.MealLog `json:"meal"`
	Reward RewardDelta     `json:"reward"`
}

// LogWaterResponse is returned by LogWater
type LogWaterResponse struct {
	Entry        *models.WaterLog `json:"entry"`
	TotalTodayMl int              `json:"total_today_ml"`
	Reward       RewardDelta      `json:"reward"`
}

// LogWeightResponse is returned by LogWeight
type LogWeightResponse struct {
	DailyLog *models.DailyLog `json:"daily_log"`
	Reward   RewardDelta      `json:"reward"`
}

// StreakResponse is returned by UpdateStreak
type StreakResponse struct {
	Checked        bool           `json:"checked"`
	StreakDays     int            `json:"streak_days"`
	BonusPoints    int            `json:"bonus_points"`
	TotalPoints    int            `json:"total_points"`
	UnlockedBadges []models.Badge `json:"unlocked_badges,omitempty"`
}

// MealPlanResponse is returned by GenerateMealPlan and the latest plan lookup
type MealPlanResponse struct {
	StartDate      string                   `json:"start_date"`
	TargetCalories int                      `json:"target_calories"`
	Plan           *mealplan.WeeklyMealPlan `json:"plan"`
	MealsCreated   int                      `json:"meals_created,omitempty"`
}

// DailySummary is one day of the weekly overview
type DailySummary struct {
	Date          string   `json:"date"`
	TotalCalories int      `json:"total_calories"`
	WaterMl       int      `json:"water_ml"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	CalorieTarget int      `json:"calorie_target"`
	WaterTargetMl int      `json:"water_target_ml"`
}

// ExportResponse points at a finished data export
type ExportResponse struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in_seconds"`
}
