package repository

import (
	"context"
	"errors"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyLogRepository interface {
	FindByDate(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	FindOrInit(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	FindByDateRange(ctx context.Context, userID uuid.UUID, from, to string) ([]models.DailyLog, error)
	Save(ctx context.Context, log *models.DailyLog) error
}

type dailyLogRepository struct {
	db *gorm.DB
}

func NewDailyLogRepository(db *gorm.DB) DailyLogRepository {
	return &dailyLogRepository{db}
}

func (r *dailyLogRepository) FindByDate(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	var log models.DailyLog
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&log).Error; err != nil {
		return nil, notFound(err)
	}
	return &log, nil
}

// FindOrInit returns the stored row for the day, or an unsaved empty one
func (r *dailyLogRepository) FindOrInit(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	log, err := r.FindByDate(ctx, userID, date)
	if errors.Is(err, ErrNotFound) {
		return &models.DailyLog{UserID: userID, Date: date}, nil
	}
	return log, err
}

func (r *dailyLogRepository) FindByDateRange(ctx context.Context, userID uuid.UUID, from, to string) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&logs).Error
	return logs, err
}

func (r *dailyLogRepository) Save(ctx context.Context, log *models.DailyLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}
