package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Badge is stored inside the reward row's JSON column
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type Reward struct {
	ID              uuid.UUID                  `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID          uuid.UUID                  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Points          int                        `gorm:"not null;default:0" json:"points"`
	StreakDays      int                        `gorm:"not null;default:0" json:"streak_days"`
	LastStreakCheck string                     `gorm:"size:10" json:"last_streak_check,omitempty"`
	Badges          datatypes.JSONSlice[Badge] `json:"badges"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Badge returns a pointer into the badge slice, or nil
func (r *Reward) Badge(id string) *Badge {
	for i := range r.Badges {
		if r.Badges[i].ID == id {
			return &r.Badges[i]
		}
	}
	return nil
}

// AddPoints only ever increases the total
func (r *Reward) AddPoints(n int) {
	if n > 0 {
		r.Points += n
	}
}
