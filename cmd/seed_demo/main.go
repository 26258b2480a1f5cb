package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/aharui/backend/config"
	"github.com/aharui/backend/internal/database"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/service"
	"github.com/aharui/backend/internal/types"
)

const demoPassword = "testpassword123"

type demoUser struct {
	name     string
	email    string
	gender   string
	dob      string
	heightCm float64
	weightKg float64
	targetKg float64
	goal     string
	activity string
}

var demoUsers = []demoUser{
	{"John Doe", "john.doe@example.com", "male", "1990-04-12", 180, 86, 78, "weight_loss", "moderately_active"},
	{"Jane Smith", "jane.smith@example.com", "female", "1995-09-30", 165, 58, 62, "muscle_gain", "very_active"},
	{"Sam Lee", "sam.lee@example.com", "other", "1988-01-05", 172, 70, 70, "general_health", "lightly_active"},
}

var demoMeals = []types.LogMealRequest{
	{MealType: "breakfast", FoodName: "Greek Yogurt with Berries", Calories: 320, ProteinG: 22, CarbsG: 38, FatG: 8},
	{MealType: "lunch", FoodName: "Chicken Caesar Salad", Calories: 560, ProteinG: 42, CarbsG: 20, FatG: 32},
	{MealType: "dinner", FoodName: "Salmon with Quinoa", Calories: 640, ProteinG: 45, CarbsG: 52, FatG: 24},
	{MealType: "snack", FoodName: "Apple and Almonds", Calories: 210, ProteinG: 6, CarbsG: 24, FatG: 11},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	repos := repository.NewRepositories(db)
	auth := service.NewAuthService(db, cfg.JWTSecret)
	profiles := service.NewProfileService(repos, nil)

	log.Println("Creating demo users...")
	for _, u := range demoUsers {
		resp, err := auth.Register(ctx, &types.RegisterRequest{Name: u.name, Email: u.email, Password: demoPassword})
		if errors.Is(err, service.ErrEmailTaken) {
			log.Printf("User %s already exists, skipping...", u.email)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}
		userID := resp.User.ID

		profile, err := profiles.UpdateProfile(ctx, userID, &types.UpdateProfileRequest{
			Gender:          &u.gender,
			DateOfBirth:     &u.dob,
			HeightCm:        &u.heightCm,
			CurrentWeightKg: &u.weightKg,
			TargetWeightKg:  &u.targetKg,
			Goal:            &u.goal,
			ActivityLevel:   &u.activity,
		})
		if err != nil {
			log.Fatalf("Failed to set up profile for %s: %v", u.email, err)
		}

		if err := seedWeek(ctx, repos, userID, u.weightKg); err != nil {
			log.Fatalf("Failed to seed history for %s: %v", u.email, err)
		}
		log.Printf("Created %s (%s), target %d kcal", u.name, u.email, profile.DailyCalorieTarget)
	}

	log.Printf("Demo users created. Password for all of them: %s", demoPassword)
}

// seedWeek logs a week of meals, water and weigh-ins ending today. Each day
// runs through the tracking services with the clock set to that day, so
// points, badges and streaks come out the same as for a real user.
func seedWeek(ctx context.Context, repos *repository.Repositories, userID uuid.UUID, weightKg float64) error {
	today := time.Now()
	for back := 6; back >= 0; back-- {
		day := today.AddDate(0, 0, -back)
		clock := func() time.Time { return day }
		rewards := service.NewRewardService(repos, clock)
		tracking := service.NewTrackingService(repos, rewards, clock)

		if _, err := rewards.UpdateStreak(ctx, userID); err != nil {
			return err
		}
		for i := range demoMeals {
			if _, err := tracking.LogMeal(ctx, userID, &demoMeals[i]); err != nil {
				return err
			}
		}
		for glass := 0; glass < 8; glass++ {
			if _, err := tracking.LogWater(ctx, userID, &types.LogWaterRequest{AmountMl: 250}); err != nil {
				return err
			}
		}
		weight := weightKg - 0.1*float64(6-back)
		if _, err := tracking.LogWeight(ctx, userID, &types.LogWeightRequest{WeightKg: weight}); err != nil {
			return err
		}
	}
	return nil
}
