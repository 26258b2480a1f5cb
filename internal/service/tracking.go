package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/aharui/backend/internal/gamification"
	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

const mealSearchLimit = 20

// TrackingService records what users eat, drink and weigh
type TrackingService struct {
	repos   *repository.Repositories
	rewards *RewardService
	now     Clock
}

var _ ITrackingService = (*TrackingService)(nil)

func NewTrackingService(repos *repository.Repositories, rewards *RewardService, now Clock) *TrackingService {
	return &TrackingService{repos: repos, rewards: rewards, now: now.orDefault()}
}

// resolveDate validates a day key and defaults it to today
func resolveDate(date string, now time.Time) (string, error) {
	if date == "" {
		return dateOf(now), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", invalidInput("date must be YYYY-MM-DD")
	}
	return date, nil
}

// LogMeal stores a meal eaten today, refreshes the day's calorie total and awards points
func (s *TrackingService) LogMeal(ctx context.Context, userID uuid.UUID, req *types.LogMealRequest) (*types.LogMealResponse, error) {
	mealType, err := mealplan.ParseMealType(req.MealType)
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	name := strings.TrimSpace(req.FoodName)
	if name == "" {
		return nil, invalidInput("food_name is required")
	}
	if req.Calories < 0 || req.ProteinG < 0 || req.CarbsG < 0 || req.FatG < 0 {
		return nil, invalidInput("calories and macros must not be negative")
	}

	source := strings.ToLower(strings.TrimSpace(req.Source))
	switch source {
	case "":
		source = models.SourceManual
	case models.SourceManual, models.SourceOCR:
	default:
		return nil, invalidInput("source must be manual or ocr")
	}

	now := s.now()
	meal := &models.MealLog{
		UserID:    userID,
		Date:      dateOf(now),
		MealType:  string(mealType),
		FoodName:  name,
		Source:    source,
		Calories:  req.Calories,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatG:      req.FatG,
		Quantity:  strings.TrimSpace(req.Quantity),
		LoggedAt:  now,
		Embedding: GenerateEmbedding(name),
	}
	var delta types.RewardDelta
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Meals.Create(ctx, meal); err != nil {
			return wrapOp("log meal", err)
		}
		if _, err := refreshCalories(ctx, tx, userID, meal.Date); err != nil {
			return err
		}
		var err error
		delta, err = s.rewards.award(ctx, tx, userID, gamification.MealPoints)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Tracking] User %s logged %s (%d kcal, %s)", userID, meal.FoodName, meal.Calories, meal.Source)
	return &types.LogMealResponse{Meal: meal, Reward: delta}, nil
}

// refreshCalories recomputes the day's total from the logged meals
func refreshCalories(ctx context.Context, repos *repository.Repositories, userID uuid.UUID, date string) (*models.DailyLog, error) {
	total, err := repos.Meals.SumLoggedCalories(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("sum calories", err)
	}
	dl, err := repos.DailyLogs.FindOrInit(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("load daily log", err)
	}
	dl.TotalCalories = total
	if err := repos.DailyLogs.Save(ctx, dl); err != nil {
		return nil, wrapOp("save daily log", err)
	}
	return dl, nil
}

func (s *TrackingService) GetMeals(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	meals, err := s.repos.Meals.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("load meals", err)
	}
	return meals, nil
}

// DeleteMeal removes a meal and keeps its day's total in step
func (s *TrackingService) DeleteMeal(ctx context.Context, userID, mealID uuid.UUID) error {
	meal, err := s.repos.Meals.FindByID(ctx, userID, mealID)
	if err != nil {
		return wrapOp("load meal", err)
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Meals.Delete(ctx, userID, mealID); err != nil {
			return wrapOp("delete meal", err)
		}
		if meal.Source == models.SourceAIPlan {
			return nil
		}
		_, err := refreshCalories(ctx, tx, userID, meal.Date)
		return err
	})
}

// SearchMeals finds the user's meals by name, closest match first where the database supports it
func (s *TrackingService) SearchMeals(ctx context.Context, userID uuid.UUID, query string) ([]models.MealLog, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search query is required")
	}
	meals, err := s.repos.Meals.Search(ctx, userID, query, GenerateEmbedding(query), mealSearchLimit)
	if err != nil {
		return nil, wrapOp("search meals", err)
	}
	return meals, nil
}

// LogWater stores a drink, refreshes the day's water total and awards points
func (s *TrackingService) LogWater(ctx context.Context, userID uuid.UUID, req *types.LogWaterRequest) (*types.LogWaterResponse, error) {
	if req.AmountMl <= 0 {
		return nil, invalidInput("amount_ml must be positive")
	}

	now := s.now()
	entry := &models.WaterLog{
		UserID:    userID,
		Date:      dateOf(now),
		AmountMl:  req.AmountMl,
		Timestamp: now,
	}
	resp := &types.LogWaterResponse{Entry: entry}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Water.Create(ctx, entry); err != nil {
			return wrapOp("log water", err)
		}

		total, err := tx.Water.SumByDate(ctx, userID, entry.Date)
		if err != nil {
			return wrapOp("sum water", err)
		}
		dl, err := tx.DailyLogs.FindOrInit(ctx, userID, entry.Date)
		if err != nil {
			return wrapOp("load daily log", err)
		}
		dl.WaterMl = total
		if err := tx.DailyLogs.Save(ctx, dl); err != nil {
			return wrapOp("save daily log", err)
		}
		resp.TotalTodayMl = total

		resp.Reward, err = s.rewards.award(ctx, tx, userID, gamification.WaterPoints(req.AmountMl))
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *TrackingService) GetWater(ctx context.Context, userID uuid.UUID, date string) ([]models.WaterLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	entries, err := s.repos.Water.FindByDate(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("load water logs", err)
	}
	return entries, nil
}

// LogWeight records a weigh-in for a day. A weigh-in for today also becomes
// the profile's current weight.
func (s *TrackingService) LogWeight(ctx context.Context, userID uuid.UUID, req *types.LogWeightRequest) (*types.LogWeightResponse, error) {
	if req.WeightKg <= 0 {
		return nil, invalidInput("weight_kg must be positive")
	}
	now := s.now()
	date, err := resolveDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	resp := &types.LogWeightResponse{}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		dl, err := tx.DailyLogs.FindOrInit(ctx, userID, date)
		if err != nil {
			return wrapOp("load daily log", err)
		}
		weight := req.WeightKg
		dl.WeightKg = &weight
		if err := tx.DailyLogs.Save(ctx, dl); err != nil {
			return wrapOp("save daily log", err)
		}
		resp.DailyLog = dl

		if date == dateOf(now) {
			profile, err := tx.Profiles.FindByUserID(ctx, userID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				log.Printf("[Tracking] No profile for user %s, current weight not updated", userID)
			case err != nil:
				return wrapOp("load profile", err)
			default:
				profile.CurrentWeightKg = weight
				if err := tx.Profiles.Save(ctx, profile); err != nil {
					return wrapOp("save profile", err)
				}
			}
		}

		resp.Reward, err = s.rewards.award(ctx, tx, userID, gamification.WeightPoints)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetDailyLog returns the stored day, or an empty one when nothing was logged
func (s *TrackingService) GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}
	dl, err := s.repos.DailyLogs.FindOrInit(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("load daily log", err)
	}
	return dl, nil
}

// UpdateDailyLog sets the wellness fields of a day
func (s *TrackingService) UpdateDailyLog(ctx context.Context, userID uuid.UUID, date string, req *types.UpdateDailyLogRequest) (*models.DailyLog, error) {
	date, err := resolveDate(date, s.now())
	if err != nil {
		return nil, err
	}

	switch {
	case req.StepCount != nil && *req.StepCount < 0:
		return nil, invalidInput("step_count must not be negative")
	case req.SleepHours != nil && (*req.SleepHours < 0 || *req.SleepHours > 24):
		return nil, invalidInput("sleep_hours must be between 0 and 24")
	case req.WellnessScore != nil && (*req.WellnessScore < 1 || *req.WellnessScore > 10):
		return nil, invalidInput("wellness_score must be between 1 and 10")
	}

	dl, err := s.repos.DailyLogs.FindOrInit(ctx, userID, date)
	if err != nil {
		return nil, wrapOp("load daily log", err)
	}
	if req.StepCount != nil {
		dl.StepCount = req.StepCount
	}
	if req.SleepHours != nil {
		dl.SleepHours = req.SleepHours
	}
	if req.WellnessScore != nil {
		dl.WellnessScore = req.WellnessScore
	}
	if req.Notes != nil {
		dl.Notes = req.Notes
	}

	if err := s.repos.DailyLogs.Save(ctx, dl); err != nil {
		return nil, wrapOp("save daily log", err)
	}
	return dl, nil
}

// WeeklySummary lists the last seven days ending today, oldest first
func (s *TrackingService) WeeklySummary(ctx context.Context, userID uuid.UUID) ([]types.DailySummary, error) {
	now := s.now()
	from := dateOf(now.AddDate(0, 0, -6))
	to := dateOf(now)

	logs, err := s.repos.DailyLogs.FindByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, wrapOp("load daily logs", err)
	}
	byDate := make(map[string]models.DailyLog, len(logs))
	for _, dl := range logs {
		byDate[dl.Date] = dl
	}

	profile, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, wrapOp("load profile", err)
	}
	calorieTarget := 0
	if profile != nil {
		calorieTarget = profile.DailyCalorieTarget
	}

	summary := make([]types.DailySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		date := dateOf(now.AddDate(0, 0, -i))
		day := types.DailySummary{
			Date:          date,
			CalorieTarget: calorieTarget,
			WaterTargetMl: profile.WaterTarget(),
		}
		if dl, ok := byDate[date]; ok {
			day.TotalCalories = dl.TotalCalories
			day.WaterMl = dl.WaterMl
			day.WeightKg = dl.WeightKg
		}
		summary = append(summary, day)
	}
	return summary, nil
}
