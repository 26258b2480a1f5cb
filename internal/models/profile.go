package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultWaterTargetMl is the daily water goal a new profile starts with
const DefaultWaterTargetMl = 2500

type UserProfile struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Name               string     `gorm:"size:100" json:"name"`
	Gender             string     `gorm:"size:10" json:"gender,omitempty"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	HeightCm           float64    `json:"height_cm"`
	CurrentWeightKg    float64    `json:"current_weight_kg"`
	TargetWeightKg     float64    `json:"target_weight_kg"`
	Goal               string     `gorm:"size:20;not null;default:'general_health'" json:"goal"`
	ActivityLevel      string     `gorm:"size:20;not null;default:'moderately_active'" json:"activity_level"`
	DailyCalorieTarget int        `json:"daily_calorie_target"`
	ProteinTargetG     int        `json:"protein_target_g"`
	CarbsTargetG       int        `json:"carbs_target_g"`
	FatTargetG         int        `json:"fat_target_g"`
	DailyWaterTargetMl int        `gorm:"not null;default:2500" json:"daily_water_target_ml"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.DailyWaterTargetMl == 0 {
		p.DailyWaterTargetMl = DefaultWaterTargetMl
	}
	return nil
}

// WaterTarget falls back to the default goal when none is stored
func (p *UserProfile) WaterTarget() int {
	if p == nil || p.DailyWaterTargetMl <= 0 {
		return DefaultWaterTargetMl
	}
	return p.DailyWaterTargetMl
}
