package repository

import (
	"context"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaterLogRepository interface {
	Create(ctx context.Context, entry *models.WaterLog) error
	FindByDate(ctx context.Context, userID uuid.UUID, date string) ([]models.WaterLog, error)
	SumByDate(ctx context.Context, userID uuid.UUID, date string) (int, error)
	Total(ctx context.Context, userID uuid.UUID) (int64, error)
}

type waterLogRepository struct {
	db *gorm.DB
}

func NewWaterLogRepository(db *gorm.DB) WaterLogRepository {
	return &waterLogRepository{db}
}

func (r *waterLogRepository) Create(ctx context.Context, entry *models.WaterLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *waterLogRepository) FindByDate(ctx context.Context, userID uuid.UUID, date string) ([]models.WaterLog, error) {
	var entries []models.WaterLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (r *waterLogRepository) SumByDate(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.WaterLog{}).
		Select("COALESCE(SUM(amount_ml), 0)").
		Where("user_id = ? AND date = ?", userID, date).
		Scan(&total).Error
	return int(total), err
}

func (r *waterLogRepository) Total(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.WaterLog{}).
		Select("COALESCE(SUM(amount_ml), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}
