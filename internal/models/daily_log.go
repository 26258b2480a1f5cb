package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the format of every day key
const DateLayout = "2006-01-02"

// DailyLog is the per-day aggregate for a user. There is one row per (user, date).
type DailyLog struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_daily_user_date" json:"user_id"`
	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_daily_user_date" json:"date"`
	TotalCalories int       `gorm:"not null;default:0" json:"total_calories"`
	WaterMl       int       `gorm:"not null;default:0" json:"water_ml"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	StepCount     *int      `json:"step_count,omitempty"`
	SleepHours    *float64  `json:"sleep_hours,omitempty"`
	WellnessScore *int      `json:"wellness_score,omitempty"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type WaterLog struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_water_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;index:idx_water_user_date" json:"date"`
	AmountMl  int       `gorm:"not null" json:"amount_ml"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

func (w *WaterLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
