package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/service"
	"github.com/aharui/backend/internal/testhelpers"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(date string) {
	t, err := time.Parse("2006-01-02 15:04", date+" 10:00")
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type testEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	clock    *testClock
	auth     *service.AuthService
	profiles *service.ProfileService
	rewards  *service.RewardService
	tracking *service.TrackingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	repos := repository.NewRepositories(db)
	clock := &testClock{}
	clock.Set("2024-03-20")

	rewards := service.NewRewardService(repos, clock.Now)
	return &testEnv{
		db:       db,
		repos:    repos,
		clock:    clock,
		auth:     service.NewAuthService(db, "test-secret"),
		profiles: service.NewProfileService(repos, clock.Now),
		rewards:  rewards,
		tracking: service.NewTrackingService(repos, rewards, clock.Now),
	}
}

// register creates an account and returns its id
func (e *testEnv) register(t *testing.T, email string) uuid.UUID {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), &types.RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return resp.User.ID
}

// completeProfile fills in everything the calorie engine needs
func (e *testEnv) completeProfile(t *testing.T, userID uuid.UUID) {
	t.Helper()
	gender, dob, goal, level := "male", "1994-01-01", "weight_loss", "moderately_active"
	height, weight, target := 180.0, 80.0, 75.0
	_, err := e.profiles.UpdateProfile(context.Background(), userID, &types.UpdateProfileRequest{
		Gender:          &gender,
		DateOfBirth:     &dob,
		HeightCm:        &height,
		CurrentWeightKg: &weight,
		TargetWeightKg:  &target,
		Goal:            &goal,
		ActivityLevel:   &level,
	})
	require.NoError(t, err)
}

// failWrites makes every create and update on table fail until the test ends
func (e *testEnv) failWrites(t *testing.T, table string) {
	t.Helper()
	fail := func(db *gorm.DB) {
		if db.Statement.Table == table {
			db.AddError(errors.New("disk full"))
		}
	}
	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_create", fail))
	require.NoError(t, e.db.Callback().Update().Before("gorm:update").Register("test:fail_update", fail))
	t.Cleanup(func() {
		_ = e.db.Callback().Create().Remove("test:fail_create")
		_ = e.db.Callback().Update().Remove("test:fail_update")
	})
}

func weeklyPlanJSON(days int) string {
	var docs []string
	for d := 1; d <= days; d++ {
		docs = append(docs, fmt.Sprintf(`{"day": %d, "meals": [
			{"mealType": "BREAKFAST", "name": "Oatmeal %d", "calories": 400, "protein": 15, "carbs": 60, "fat": 10, "ingredients": ["1 cup oats", "1 banana"]},
			{"mealType": "LUNCH", "name": "Chicken Salad %d", "calories": 600, "protein": 45, "carbs": 30, "fat": 25, "ingredients": ["150g chicken breast", "2 cups lettuce"]},
			{"mealType": "DINNER", "name": "Salmon %d", "calories": 700, "protein": 40, "carbs": 60, "fat": 25, "ingredients": ["150g salmon", "1 cup rice"]},
			{"mealType": "SNACK", "name": "Greek Yogurt %d", "calories": 200, "protein": 15, "carbs": 18, "fat": 5, "ingredients": ["1 cup greek yogurt"]}
		]}`, d, d, d, d, d))
	}
	return "```json\n{\"weeklyPlan\": [" + strings.Join(docs, ",") + "]}\n```"
}
