package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aharui/backend/internal/mocks"
	"github.com/aharui/backend/internal/nutrition"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/service"
	"github.com/aharui/backend/internal/testhelpers"
)

type testAPI struct {
	router *gin.Engine
	gen    *mocks.MockTextGenerator
	store  *mocks.MockObjectStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDatabase(t)
	repos := repository.NewRepositories(db)
	now := func() time.Time { return time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC) }

	gen := new(mocks.MockTextGenerator)
	store := new(mocks.MockObjectStore)
	ai := service.NewAIService(gen)
	rewards := service.NewRewardService(repos, now)

	router := gin.New()
	RegisterRoutes(router, Services{
		Auth:      service.NewAuthService(db, "test-secret"),
		Profiles:  service.NewProfileService(repos, now),
		Tracking:  service.NewTrackingService(repos, rewards, now),
		Rewards:   rewards,
		Planning:  service.NewPlanningService(repos, ai, nil, now),
		Extractor: ai,
		Exports:   service.NewExportService(repos, rewards, store, now),
	}, nil, map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
	})

	return &testAPI{router: router, gen: gen, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (a *testAPI) completeProfile(t *testing.T, token string) {
	t.Helper()
	w := a.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{
		"gender":            "male",
		"date_of_birth":     "1994-01-01",
		"height_cm":         180,
		"current_weight_kg": 80,
		"target_weight_kg":  75,
		"goal":              "weight_loss",
		"activity_level":    "moderately_active",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func planJSON() string {
	var days []string
	for d := 1; d <= 7; d++ {
		days = append(days, fmt.Sprintf(`{"day": %d, "meals": [
			{"mealType": "BREAKFAST", "name": "Eggs", "calories": 400, "protein": 25, "carbs": 20, "fat": 20, "ingredients": ["2 eggs", "1 slice toast"]},
			{"mealType": "LUNCH", "name": "Wrap", "calories": 600, "protein": 35, "carbs": 60, "fat": 20, "ingredients": ["1 tortilla"]},
			{"mealType": "DINNER", "name": "Fish", "calories": 800, "protein": 45, "carbs": 70, "fat": 30, "ingredients": ["200g cod"]},
			{"mealType": "SNACK", "name": "Nuts", "calories": 250, "protein": 8, "carbs": 10, "fat": 20, "ingredients": ["30g almonds"]}
		]}`, d))
	}
	return `{"weeklyPlan": [` + strings.Join(days, ",") + `]}`
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	router := gin.New()
	router.GET("/health", Health(map[string]HealthCheck{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "auth@example.com")
	assert.NotEmpty(t, token)

	w := api.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Again", "email": "auth@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Short", "email": "short@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "auth@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "auth@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "profile@example.com")

	w := api.do(t, http.MethodPost, "/api/v1/profile/targets", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "incomplete profile")

	api.completeProfile(t, token)

	w = api.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2259, decode(t, w)["daily_calorie_target"])

	w = api.do(t, http.MethodPost, "/api/v1/profile/targets", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2259, body["daily_calories"])
	assert.EqualValues(t, 1780, body["bmr"])

	w = api.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"activity_level": "couch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackingRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "tracking@example.com")

	w := api.do(t, http.MethodPost, "/api/v1/meals", token, gin.H{
		"meal_type": "lunch",
		"food_name": "Burrito Bowl",
		"calories":  650,
		"protein_g": 35,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	meal := body["meal"].(map[string]any)
	reward := body["reward"].(map[string]any)
	assert.EqualValues(t, 20, reward["points_awarded"])
	assert.Len(t, reward["unlocked_badges"], 1)

	w = api.do(t, http.MethodPost, "/api/v1/meals", token, gin.H{"meal_type": "brunch", "food_name": "Eggs", "calories": 300})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/meals?date=2024-03-20", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["meals"], 1)

	w = api.do(t, http.MethodGet, "/api/v1/meals/search?q=burrito", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["meals"], 1)

	w = api.do(t, http.MethodPost, "/api/v1/water", token, gin.H{"amount_ml": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 500, decode(t, w)["total_today_ml"])

	w = api.do(t, http.MethodPost, "/api/v1/water", token, gin.H{"amount_ml": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/water", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 500, decode(t, w)["total_ml"])

	w = api.do(t, http.MethodPost, "/api/v1/weight", token, gin.H{"weight_kg": 79.4})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/daily-logs/2024-03-20", token, gin.H{"step_count": 9000, "wellness_score": 7})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/daily-logs/2024-03-20", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode(t, w)
	assert.EqualValues(t, 650, day["total_calories"])
	assert.EqualValues(t, 500, day["water_ml"])
	assert.EqualValues(t, 79.4, day["weight_kg"])
	assert.EqualValues(t, 9000, day["step_count"])

	w = api.do(t, http.MethodGet, "/api/v1/daily-logs/not-a-date", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/daily-logs/week", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["days"], 7)

	w = api.do(t, http.MethodDelete, "/api/v1/meals/"+meal["id"].(string), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodDelete, "/api/v1/meals/"+meal["id"].(string), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodDelete, "/api/v1/meals/xyz", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRewardRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "rewards@example.com")

	w := api.do(t, http.MethodGet, "/api/v1/rewards", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["badges"], 10)

	w = api.do(t, http.MethodPost, "/api/v1/rewards/streak", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["checked"])
	assert.EqualValues(t, 0, body["streak_days"])

	w = api.do(t, http.MethodPost, "/api/v1/rewards/streak", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["checked"])
}

func TestPlanningRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "planning@example.com")

	w := api.do(t, http.MethodPost, "/api/v1/shopping-lists/generate", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "No meals found for the selected period. Please generate a meal plan first.", decode(t, w)["error"])

	w = api.do(t, http.MethodPost, "/api/v1/meal-plans/generate", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "profile is incomplete")

	api.completeProfile(t, token)
	api.gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"weeklyPlan"`)
	}), mock.Anything).Return(planJSON(), nil)
	api.gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"items"`)
	}), mock.Anything).Return(`{"items": [{"name": "Eggs", "quantity": "14", "category": "Dairy"}, {"name": "Cod", "quantity": "1.4kg", "category": "Proteins"}]}`, nil)

	w = api.do(t, http.MethodPost, "/api/v1/meal-plans/generate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plan := decode(t, w)
	assert.EqualValues(t, 28, plan["meals_created"])
	assert.Equal(t, "2024-03-20", plan["start_date"])

	w = api.do(t, http.MethodGet, "/api/v1/meal-plans/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no cache configured")

	w = api.do(t, http.MethodPost, "/api/v1/shopping-lists/generate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	list := decode(t, w)
	listID := list["id"].(string)
	assert.Equal(t, "AI Shopping List - Week of 2024-03-20", list["title"])

	w = api.do(t, http.MethodPatch, "/api/v1/shopping-lists/"+listID+"/items/0", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	assert.Equal(t, true, items[0].(map[string]any)["checked"])

	w = api.do(t, http.MethodPatch, "/api/v1/shopping-lists/"+listID+"/items/9", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodPatch, "/api/v1/shopping-lists/"+listID+"/items/first", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/shopping-lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["shopping_lists"], 1)

	w = api.do(t, http.MethodGet, "/api/v1/shopping-lists/"+listID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodDelete, "/api/v1/shopping-lists/"+listID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(t, http.MethodGet, "/api/v1/shopping-lists/"+listID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/ai/quota", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["limited"])
}

func TestAIFailureRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "aifail@example.com")
	api.completeProfile(t, token)

	api.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("API request failed with status 429 RESOURCE_EXHAUSTED: quota"))

	w := api.do(t, http.MethodPost, "/api/v1/meal-plans/generate", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, "API quota exceeded. Please try again in a few minutes.", body["error"])
	assert.Equal(t, "quota_exceeded", body["kind"])

	w = api.do(t, http.MethodPost, "/api/v1/nutrition/extract", token, gin.H{"text": "Calories 100"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/nutrition/extract", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractNutritionRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "label@example.com")

	api.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"foodName": "Protein Bar", "calories": 210, "protein": 20, "carbs": 22, "fat": 7, "servingSize": "1 bar", "confidence": "high"}`, nil)

	w := api.do(t, http.MethodPost, "/api/v1/nutrition/extract", token, gin.H{"text": "Protein Bar Calories 210 Protein 20g"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Protein Bar", body["food_name"])
	assert.EqualValues(t, 210, body["calories"])
}

func TestExportRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "export@example.com")

	api.store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, "application/json").Return(nil)
	api.store.On("GeneratePresignedURL", mock.Anything, mock.Anything, time.Hour).Return("https://s3.example.com/export.json", nil)

	w := api.do(t, http.MethodPost, "/api/v1/export", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "https://s3.example.com/export.json", body["download_url"])
	assert.EqualValues(t, 3600, body["expires_in_seconds"])
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing input", &nutrition.MissingInputError{Field: "height"}, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: bad", service.ErrInvalidInput), http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"no meals", service.ErrNoMealsForPeriod, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"ai", &service.AIError{Kind: service.AIErrUnavailable, Message: "down"}, http.StatusBadGateway},
		{"export", service.ErrExportUnavailable, http.StatusServiceUnavailable},
		{"other", &service.OperationError{Op: "save", Err: errors.New("disk full")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "disk full")
			}
		})
	}
}
