package gamification

import (
	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
)

// Badge ids
const (
	BadgeFirstMeal       = "first_meal"
	BadgeHydrationHero   = "hydration_hero"
	BadgePerfectWeek     = "perfect_week"
	BadgeScannerPro      = "scanner_pro"
	BadgeWeightWarrior   = "weight_warrior"
	BadgeCalorieMaster   = "calorie_master"
	BadgeStreakRookie    = "streak_rookie"
	BadgeStreakMaster    = "streak_master"
	BadgeWaterChampion   = "water_champion"
	BadgeNutritionExpert = "nutrition_expert"
)

var definitions = []models.Badge{
	{ID: BadgeFirstMeal, Name: "First Steps", Description: "Log your first meal"},
	{ID: BadgeHydrationHero, Name: "Hydration Hero", Description: "Meet your water goal for 3 consecutive days"},
	{ID: BadgePerfectWeek, Name: "Perfect Week", Description: "Log a meal every day for a full week"},
	{ID: BadgeScannerPro, Name: "Scanner Pro", Description: "Scan 10 different food items"},
	{ID: BadgeWeightWarrior, Name: "Weight Warrior", Description: "Log your weight for 7 consecutive days"},
	{ID: BadgeCalorieMaster, Name: "Calorie Master", Description: "Stay within your calorie target for 5 days"},
	{ID: BadgeStreakRookie, Name: "Streak Rookie", Description: "Maintain a 3-day streak"},
	{ID: BadgeStreakMaster, Name: "Streak Master", Description: "Maintain a 30-day streak"},
	{ID: BadgeWaterChampion, Name: "Water Champion", Description: "Log 10 liters of water total"},
	{ID: BadgeNutritionExpert, Name: "Nutrition Expert", Description: "Log 50 meals"},
}

// DefaultBadges returns a fresh, fully locked copy of the badge catalogue
func DefaultBadges() []models.Badge {
	badges := make([]models.Badge, len(definitions))
	copy(badges, definitions)
	return badges
}

// NewReward builds the reward row seeded for a new account
func NewReward(userID uuid.UUID) *models.Reward {
	return &models.Reward{UserID: userID, Badges: DefaultBadges()}
}
