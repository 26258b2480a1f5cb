package service_test

import (
	"context"
	"testing"

	"github.com/aharui/backend/internal/gamification"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStreak(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "streak@example.com")

	logMeal := func() {
		t.Helper()
		_, err := env.tracking.LogMeal(ctx, userID, &types.LogMealRequest{MealType: "LUNCH", FoodName: "Soup", Calories: 300})
		require.NoError(t, err)
	}

	env.clock.Set("2024-03-18")
	logMeal()
	env.clock.Set("2024-03-19")
	logMeal()

	env.clock.Set("2024-03-20")
	resp, err := env.rewards.UpdateStreak(ctx, userID)
	require.NoError(t, err)
	assert.True(t, resp.Checked)
	assert.Equal(t, 1, resp.StreakDays)
	assert.Zero(t, resp.BonusPoints)

	again, err := env.rewards.UpdateStreak(ctx, userID)
	require.NoError(t, err)
	assert.False(t, again.Checked, "second check on the same day is a no-op")
	assert.Equal(t, 1, again.StreakDays)

	// nothing logged on the 20th
	env.clock.Set("2024-03-21")
	resp, err = env.rewards.UpdateStreak(ctx, userID)
	require.NoError(t, err)
	assert.True(t, resp.Checked)
	assert.Zero(t, resp.StreakDays)
}

func TestUpdateStreakMilestone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.register(t, "milestone@example.com")

	env.clock.Set("2024-03-19")
	_, err := env.tracking.LogMeal(ctx, userID, &types.LogMealRequest{MealType: "DINNER", FoodName: "Stew", Calories: 600})
	require.NoError(t, err)

	reward, err := env.repos.Rewards.FindByUserID(ctx, userID)
	require.NoError(t, err)
	reward.StreakDays = 6
	require.NoError(t, env.repos.Rewards.Save(ctx, reward))

	env.clock.Set("2024-03-20")
	resp, err := env.rewards.UpdateStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.StreakDays)
	assert.Equal(t, 100, resp.BonusPoints)
	assert.Equal(t, gamification.MealPoints+100, resp.TotalPoints)
	assert.ElementsMatch(t, []string{gamification.BadgePerfectWeek, gamification.BadgeStreakRookie}, badgeIDs(resp.UnlockedBadges))

	stored, err := env.rewards.GetRewards(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.Badge(gamification.BadgePerfectWeek).Unlocked)
	assert.NotNil(t, stored.Badge(gamification.BadgePerfectWeek).UnlockedAt)
	assert.Equal(t, "2024-03-20", stored.LastStreakCheck)
}

func TestGetRewardsSeedsMissingRow(t *testing.T) {
	env := newTestEnv(t)

	userID := uuid.New()
	reward, err := env.rewards.GetRewards(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, reward.UserID)
	assert.Len(t, reward.Badges, len(gamification.DefaultBadges()))

	again, err := env.rewards.GetRewards(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, reward.ID, again.ID)
}
