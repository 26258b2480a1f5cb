package gamification

import (
	"log"
	"time"

	"github.com/aharui/backend/internal/models"
)

// Point tariffs
const (
	MealPoints      = 20
	WeightPoints    = 15
	waterPointsUnit = 250
	waterPointsStep = 10
)

var streakMilestones = map[int]int{
	7:  100,
	14: 200,
	30: 500,
}

// WaterPoints awards 10 points for every full 250 ml
func WaterPoints(ml int) int {
	if ml <= 0 {
		return 0
	}
	return ml / waterPointsUnit * waterPointsStep
}

// StreakBonus is the bonus for reaching exactly this streak length, or 0
func StreakBonus(streak int) int {
	return streakMilestones[streak]
}

// Yesterday returns the day key before today
func Yesterday(today string) (string, error) {
	t, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(models.DateLayout), nil
}

// ApplyStreak runs the daily streak rule at most once per calendar day.
// It returns false when today has already been checked. Any milestone bonus
// is added to the reward's points and also returned.
func ApplyStreak(reward *models.Reward, today string, loggedYesterday bool) (bool, int) {
	if reward.LastStreakCheck == today {
		return false, 0
	}

	if loggedYesterday {
		reward.StreakDays++
	} else {
		if reward.StreakDays > 0 {
			log.Printf("[Gamification] Streak of %d days reset for user %s", reward.StreakDays, reward.UserID)
		}
		reward.StreakDays = 0
	}
	reward.LastStreakCheck = today

	bonus := StreakBonus(reward.StreakDays)
	reward.AddPoints(bonus)
	return true, bonus
}
