package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const planCacheTTL = 24 * time.Hour

// PlanCache keeps the most recent meal plan per user
type PlanCache interface {
	Save(ctx context.Context, userID uuid.UUID, plan *types.MealPlanResponse) error
	// Latest returns ErrNotFound when nothing is cached
	Latest(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error)
}

// RedisPlanCache stores plans as JSON under mealplan:latest:<user>
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: planCacheTTL}
}

func planCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("mealplan:latest:%s", userID)
}

func (c *RedisPlanCache) Save(ctx context.Context, userID uuid.UUID, plan *types.MealPlanResponse) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	if err := c.client.Set(ctx, planCacheKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save meal plan to Redis: %w", err)
	}
	return nil
}

func (c *RedisPlanCache) Latest(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error) {
	data, err := c.client.Get(ctx, planCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan from Redis: %w", err)
	}

	var plan types.MealPlanResponse
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	return &plan, nil
}
