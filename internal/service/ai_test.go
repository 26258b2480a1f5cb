package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/mocks"
	"github.com/aharui/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind service.AIErrorKind
		msg  string
	}{
		{"token limit", errors.New("finish reason max_tokens"), service.AIErrTokenLimit, "Response too long. Retrying with shorter format..."},
		{"quota", errors.New("API request failed with status 429 RESOURCE_EXHAUSTED: quota"), service.AIErrQuota, "API quota exceeded. Please try again in a few minutes."},
		{"unavailable", errors.New("503 Unavailable"), service.AIErrUnavailable, "Service temporarily unavailable. Please try again."},
		{"empty", service.ErrEmptyResponse, service.AIErrEmpty, "Empty response from API. Please try again."},
		{"schema", &mealplan.SchemaMismatchError{Field: "weeklyPlan", Reason: "missing"}, service.AIErrMalformed, "The AI response could not be read. Please try again."},
		{"other", errors.New("connection reset"), service.AIErrOther, "Failed to generate meal plan: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aiErr := service.ClassifyError("generate meal plan", tt.err)
			require.NotNil(t, aiErr)
			assert.Equal(t, tt.kind, aiErr.Kind)
			assert.Equal(t, tt.msg, aiErr.Error())
			assert.ErrorIs(t, aiErr, tt.err)
		})
	}

	assert.Nil(t, service.ClassifyError("anything", nil))

	already := &service.AIError{Kind: service.AIErrQuota, Message: "x"}
	assert.Same(t, already, service.ClassifyError("anything", fmt.Errorf("wrapped: %w", already)))
}

func TestAIRequestLifecycle(t *testing.T) {
	req := service.NewAIRequest[string]()
	assert.Equal(t, service.StateIdle, req.State())

	release := make(chan struct{})
	started := req.Start(context.Background(), func(ctx context.Context) (string, error) {
		<-release
		return "done", nil
	})
	require.True(t, started)
	assert.Equal(t, service.StateSending, req.State())

	assert.False(t, req.Start(context.Background(), func(ctx context.Context) (string, error) {
		return "second", nil
	}), "a request only runs once")

	// abandoning the wait has no effect on the request
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := req.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	result, err := req.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, service.StateSuccess, req.State())
}

func TestAIRequestError(t *testing.T) {
	req := service.NewAIRequest[int]()
	req.Start(context.Background(), func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})
	_, err := req.Wait(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, service.StateError, req.State())
}

func TestAIServiceGenerateWeeklyMealPlan(t *testing.T) {
	profile := mealplan.PromptProfile{Gender: "male", Age: 30, HeightCm: 180, CurrentWeightKg: 80, TargetWeightKg: 75, Goal: "weight_loss", ActivityLevel: "moderately_active"}

	t.Run("success", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "close to 2259 kcal")
		}), service.DefaultGenerationConfig()).Return(weeklyPlanJSON(7), nil)

		plan, err := service.NewAIService(gen).GenerateWeeklyMealPlan(context.Background(), profile, 2259)
		require.NoError(t, err)
		require.Len(t, plan.Days, 7)
		for _, day := range plan.Days {
			assert.Len(t, day.Meals, 4)
		}
		gen.AssertExpectations(t)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("API request failed with status 429 RESOURCE_EXHAUSTED: quota exceeded"))

		_, err := service.NewAIService(gen).GenerateWeeklyMealPlan(context.Background(), profile, 2259)
		var aiErr *service.AIError
		require.True(t, errors.As(err, &aiErr))
		assert.Equal(t, service.AIErrQuota, aiErr.Kind)
	})

	t.Run("blank response", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

		_, err := service.NewAIService(gen).GenerateWeeklyMealPlan(context.Background(), profile, 2259)
		var aiErr *service.AIError
		require.True(t, errors.As(err, &aiErr))
		assert.Equal(t, "Empty response from API. Please try again.", aiErr.Message)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(`{"days": []}`, nil)

		_, err := service.NewAIService(gen).GenerateWeeklyMealPlan(context.Background(), profile, 2259)
		var aiErr *service.AIError
		require.True(t, errors.As(err, &aiErr))
		assert.Equal(t, service.AIErrMalformed, aiErr.Kind)
		assert.ErrorIs(t, err, mealplan.ErrSchemaMismatch)
	})

	t.Run("no json at all", func(t *testing.T) {
		gen := new(mocks.MockTextGenerator)
		gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("I cannot help with that.", nil)

		_, err := service.NewAIService(gen).GenerateWeeklyMealPlan(context.Background(), profile, 2259)
		assert.ErrorIs(t, err, mealplan.ErrMalformedResponse)
	})
}

func TestAIServiceStartReportsState(t *testing.T) {
	release := make(chan time.Time)
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		WaitUntil(release).
		Return(`{"items": [{"name": "Oats", "quantity": "1 bag", "category": "Grains"}]}`, nil)

	req := service.NewAIService(gen).StartShoppingList(context.Background(), []string{"1 cup oats"})
	assert.Equal(t, service.StateSending, req.State())

	close(release)
	items, err := req.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []mealplan.ShoppingItem{{Name: "Oats", Quantity: "1 bag", Category: "Grains"}}, items)
	assert.Equal(t, service.StateSuccess, req.State())
}

func TestAIServiceExtractNutrition(t *testing.T) {
	gen := new(mocks.MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Calories 190")
	}), mock.Anything).Return(`Sure! {"foodName": "Granola Bar", "calories": 190, "protein": 4, "carbs": 29, "fat": 7, "servingSize": "1 bar", "confidence": "high"}`, nil)

	svc := service.NewAIService(gen)
	info, err := svc.ExtractNutrition(context.Background(), "Granola Bar Calories 190")
	require.NoError(t, err)
	assert.Equal(t, "Granola Bar", info.FoodName)
	assert.Equal(t, 190, info.Calories)

	_, err = svc.ExtractNutrition(context.Background(), "  ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
