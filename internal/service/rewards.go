package service

import (
	"context"
	"errors"
	"log"

	"github.com/aharui/backend/internal/gamification"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

// RewardService owns points, streaks and badge unlocks
type RewardService struct {
	repos *repository.Repositories
	now   Clock
}

var _ IRewardService = (*RewardService)(nil)

func NewRewardService(repos *repository.Repositories, now Clock) *RewardService {
	return &RewardService{repos: repos, now: now.orDefault()}
}

// GetRewards returns the user's reward row, seeding one if the account predates rewards
func (s *RewardService) GetRewards(ctx context.Context, userID uuid.UUID) (*models.Reward, error) {
	reward, err := load(ctx, s.repos, userID)
	if err != nil {
		return nil, wrapOp("load rewards", err)
	}
	return reward, nil
}

func load(ctx context.Context, repos *repository.Repositories, userID uuid.UUID) (*models.Reward, error) {
	reward, err := repos.Rewards.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		reward = gamification.NewReward(userID)
		if err := repos.Rewards.Create(ctx, reward); err != nil {
			return nil, err
		}
		return reward, nil
	}
	return reward, err
}

// award adds points for a logging action and unlocks whatever badges now
// qualify. repos is the logging action's transaction.
func (s *RewardService) award(ctx context.Context, repos *repository.Repositories, userID uuid.UUID, points int) (types.RewardDelta, error) {
	reward, err := load(ctx, repos, userID)
	if err != nil {
		return types.RewardDelta{}, wrapOp("load rewards", err)
	}

	reward.AddPoints(points)
	unlocked := s.evaluate(ctx, repos, userID, reward)

	if err := repos.Rewards.Save(ctx, reward); err != nil {
		return types.RewardDelta{}, wrapOp("save rewards", err)
	}

	return types.RewardDelta{
		PointsAwarded:  points,
		TotalPoints:    reward.Points,
		StreakDays:     reward.StreakDays,
		UnlockedBadges: unlocked,
	}, nil
}

// UpdateStreak applies the daily streak rule. Repeated calls on the same day change nothing.
func (s *RewardService) UpdateStreak(ctx context.Context, userID uuid.UUID) (*types.StreakResponse, error) {
	today := dateOf(s.now())
	yesterday, err := gamification.Yesterday(today)
	if err != nil {
		return nil, wrapOp("compute yesterday", err)
	}

	var resp *types.StreakResponse
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		reward, err := load(ctx, tx, userID)
		if err != nil {
			return wrapOp("load rewards", err)
		}

		count, err := tx.Meals.CountLoggedOn(ctx, userID, yesterday)
		if err != nil {
			return wrapOp("count meals", err)
		}

		changed, bonus := gamification.ApplyStreak(reward, today, count > 0)
		resp = &types.StreakResponse{Checked: changed, BonusPoints: bonus}

		if changed {
			resp.UnlockedBadges = s.evaluate(ctx, tx, userID, reward)
			if err := tx.Rewards.Save(ctx, reward); err != nil {
				return wrapOp("save rewards", err)
			}
			log.Printf("[Rewards] User %s streak is %d days", userID, reward.StreakDays)
		}

		resp.StreakDays = reward.StreakDays
		resp.TotalPoints = reward.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// evaluate runs the badge rules. A failing query only costs this round of
// unlocks; the logging action that triggered it still succeeds.
func (s *RewardService) evaluate(ctx context.Context, repos *repository.Repositories, userID uuid.UUID, reward *models.Reward) []models.Badge {
	engine := gamification.NewEngine(&rewardSource{repos: repos}, s.now)
	unlocked, err := engine.Evaluate(ctx, userID, reward)
	if err != nil {
		log.Printf("[Rewards] Badge evaluation for user %s stopped early: %v", userID, err)
	}
	return unlocked
}

// rewardSource answers the badge rules' queries from the repositories
type rewardSource struct {
	repos *repository.Repositories
}

var _ gamification.Source = (*rewardSource)(nil)

func (r *rewardSource) CountLoggedMeals(ctx context.Context, userID uuid.UUID, upTo string) (int64, error) {
	return r.repos.Meals.CountLogged(ctx, userID, upTo)
}

func (r *rewardSource) CountMealsBySource(ctx context.Context, userID uuid.UUID, source, upTo string) (int64, error) {
	return r.repos.Meals.CountBySource(ctx, userID, source, upTo)
}

func (r *rewardSource) DailyLogOn(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	dl, err := r.repos.DailyLogs.FindByDate(ctx, userID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return dl, err
}

func (r *rewardSource) TotalWater(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.repos.Water.Total(ctx, userID)
}

func (r *rewardSource) Profile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	p, err := r.repos.Profiles.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}
