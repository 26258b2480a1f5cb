package gamification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
)

// Thresholds for the count and streak based badges
const (
	nutritionExpertMeals = 50
	scannerProScans      = 10
	waterChampionMl      = 10000
	perfectWeekStreak    = 7
	streakRookieStreak   = 3
	streakMasterStreak   = 30

	hydrationWindowDays   = 7
	hydrationRunDays      = 3
	weightWindowDays      = 14
	weightRunDays         = 7
	calorieWindowDays     = 14
	calorieDaysOnTarget   = 5
	calorieToleranceLower = 0.9
	calorieToleranceUpper = 1.1
)

// Source is the read-only view of a user's data the badge rules need.
// DailyLogOn and Profile return nil, nil when nothing is stored.
type Source interface {
	CountLoggedMeals(ctx context.Context, userID uuid.UUID, upTo string) (int64, error)
	CountMealsBySource(ctx context.Context, userID uuid.UUID, source, upTo string) (int64, error)
	DailyLogOn(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	TotalWater(ctx context.Context, userID uuid.UUID) (int64, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
}

// Engine evaluates badge rules against a Source
type Engine struct {
	src Source
	now func() time.Time
}

// NewEngine creates an engine. A nil clock means time.Now.
func NewEngine(src Source, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{src: src, now: now}
}

func (e *Engine) daysAgo(i int) string {
	return e.now().AddDate(0, 0, -i).Format(models.DateLayout)
}

// ShouldUnlock reports whether the badge's condition currently holds.
// Unknown ids never unlock.
func (e *Engine) ShouldUnlock(ctx context.Context, userID uuid.UUID, badgeID string, streak int) (bool, error) {
	today := e.daysAgo(0)

	switch badgeID {
	case BadgeFirstMeal:
		n, err := e.src.CountLoggedMeals(ctx, userID, today)
		return n >= 1, err
	case BadgeNutritionExpert:
		n, err := e.src.CountLoggedMeals(ctx, userID, today)
		return n >= nutritionExpertMeals, err
	case BadgeScannerPro:
		n, err := e.src.CountMealsBySource(ctx, userID, models.SourceOCR, today)
		return n >= scannerProScans, err
	case BadgeWaterChampion:
		total, err := e.src.TotalWater(ctx, userID)
		return total >= waterChampionMl, err
	case BadgePerfectWeek:
		return streak >= perfectWeekStreak, nil
	case BadgeStreakRookie:
		return streak >= streakRookieStreak, nil
	case BadgeStreakMaster:
		return streak >= streakMasterStreak, nil
	case BadgeHydrationHero:
		return e.hydrationHero(ctx, userID)
	case BadgeWeightWarrior:
		return e.consecutiveDays(ctx, userID, weightWindowDays, weightRunDays, func(l *models.DailyLog) bool {
			return l.WeightKg != nil
		})
	case BadgeCalorieMaster:
		return e.calorieMaster(ctx, userID)
	default:
		return false, nil
	}
}

func (e *Engine) hydrationHero(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := e.src.Profile(ctx, userID)
	if err != nil {
		return false, err
	}
	target := profile.WaterTarget()

	return e.consecutiveDays(ctx, userID, hydrationWindowDays, hydrationRunDays, func(l *models.DailyLog) bool {
		return l.WaterMl >= target
	})
}

// consecutiveDays walks back from today over window days looking for a run of
// length days where every daily log satisfies ok. A missing log breaks the run.
func (e *Engine) consecutiveDays(ctx context.Context, userID uuid.UUID, window, length int, ok func(*models.DailyLog) bool) (bool, error) {
	run := 0
	for i := 0; i < window; i++ {
		dl, err := e.src.DailyLogOn(ctx, userID, e.daysAgo(i))
		if err != nil {
			return false, err
		}
		if dl != nil && ok(dl) {
			run++
			if run >= length {
				return true, nil
			}
		} else {
			run = 0
		}
	}
	return false, nil
}

func (e *Engine) calorieMaster(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := e.src.Profile(ctx, userID)
	if err != nil || profile == nil || profile.DailyCalorieTarget <= 0 {
		return false, err
	}

	target := float64(profile.DailyCalorieTarget)
	lower := int(target * calorieToleranceLower)
	upper := int(target * calorieToleranceUpper)

	onTarget := 0
	for i := 0; i < calorieWindowDays; i++ {
		dl, err := e.src.DailyLogOn(ctx, userID, e.daysAgo(i))
		if err != nil {
			return false, err
		}
		if dl == nil {
			continue
		}
		if dl.TotalCalories >= lower && dl.TotalCalories <= upper {
			onTarget++
			if onTarget >= calorieDaysOnTarget {
				return true, nil
			}
		}
	}
	return false, nil
}

// Evaluate unlocks every locked badge whose condition now holds and returns
// the newly unlocked badges. The reward is modified in place; the caller saves it.
// Badges unlocked before an error stay unlocked.
func (e *Engine) Evaluate(ctx context.Context, userID uuid.UUID, reward *models.Reward) ([]models.Badge, error) {
	var unlocked []models.Badge
	for i := range reward.Badges {
		badge := &reward.Badges[i]
		if badge.Unlocked {
			continue
		}

		ok, err := e.ShouldUnlock(ctx, userID, badge.ID, reward.StreakDays)
		if err != nil {
			return unlocked, fmt.Errorf("failed to evaluate badge %s: %w", badge.ID, err)
		}
		if !ok {
			continue
		}

		at := e.now()
		badge.Unlocked = true
		badge.UnlockedAt = &at
		unlocked = append(unlocked, *badge)
		log.Printf("[Gamification] User %s unlocked badge %s", userID, badge.ID)
	}
	return unlocked, nil
}
