package repository

import (
	"context"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Reward, error)
	Save(ctx context.Context, reward *models.Reward) error
}

type rewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db}
}

func (r *rewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Create(reward).Error
}

func (r *rewardRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&reward).Error; err != nil {
		return nil, notFound(err)
	}
	return &reward, nil
}

func (r *rewardRepository) Save(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Save(reward).Error
}
