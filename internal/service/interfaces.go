package service

import (
	"context"

	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/nutrition"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
	CalculateCalorieTarget(ctx context.Context, userID uuid.UUID) (*nutrition.Targets, error)
}

// ITrackingService defines the interface for meal, water, weight and daily log operations
type ITrackingService interface {
	LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*types.LogMealResponse, error)
	GetMeals(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error)
	DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error
	SearchMeals(ctx context.Context, userID uuid.UUID, query string) ([]models.MealLog, error)
	LogWater(ctx context.Context, userID uuid.UUID, req *types.LogWaterRequest) (*types.LogWaterResponse, error)
	GetWater(ctx context.Context, userID uuid.UUID, date string) ([]models.WaterLog, error)
	LogWeight(ctx context.Context, userID uuid.UUID, req *types.LogWeightRequest) (*types.LogWeightResponse, error)
	GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	UpdateDailyLog(ctx context.Context, userID uuid.UUID, date string, req *types.UpdateDailyLogRequest) (*models.DailyLog, error)
	WeeklySummary(ctx context.Context, userID uuid.UUID) ([]types.DailySummary, error)
}

// IRewardService defines the interface for points, streaks and badges
type IRewardService interface {
	GetRewards(ctx context.Context, userID uuid.UUID) (*models.Reward, error)
	UpdateStreak(ctx context.Context, userID uuid.UUID) (*types.StreakResponse, error)
}

// IPlanningService defines the interface for AI meal plans and shopping lists
type IPlanningService interface {
	GenerateMealPlan(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error)
	LatestMealPlan(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error)
	GenerateShoppingList(ctx context.Context, userID uuid.UUID) (*models.ShoppingList, error)
	ListShoppingLists(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error)
	GetShoppingList(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error)
	ToggleShoppingItem(ctx context.Context, userID, listID uuid.UUID, index int) (*models.ShoppingList, error)
	DeleteShoppingList(ctx context.Context, userID, listID uuid.UUID) error
}

// INutritionExtractor reads nutrition labels
type INutritionExtractor interface {
	ExtractNutrition(ctx context.Context, labelText string) (mealplan.NutritionInfo, error)
}

// IExportService defines the interface for user data exports
type IExportService interface {
	Export(ctx context.Context, userID uuid.UUID) (*types.ExportResponse, error)
}
