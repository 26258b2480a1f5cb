package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Meal sources
const (
	SourceManual = "manual"
	SourceAIPlan = "ai_plan"
	SourceOCR    = "ocr"
)

// LoggedSources are the sources that count as a meal the user actually ate
var LoggedSources = []string{SourceManual, SourceOCR}

// MealLog is a single meal owned by a (user, date) pair. Rows are never updated.
type MealLog struct {
	ID        uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:varchar(36);not null;index:idx_meal_user_date" json:"user_id"`
	Date      string          `gorm:"size:10;not null;index:idx_meal_user_date" json:"date"`
	MealType  string          `gorm:"size:10;not null" json:"meal_type"`
	FoodName  string          `gorm:"size:255;not null" json:"food_name"`
	Source    string          `gorm:"size:10;not null;default:'manual'" json:"source"`
	Calories  int             `gorm:"not null" json:"calories"`
	ProteinG  float64         `json:"protein_g"`
	CarbsG    float64         `json:"carbs_g"`
	FatG      float64         `json:"fat_g"`
	Quantity  string          `gorm:"type:text" json:"quantity,omitempty"`
	LoggedAt  time.Time       `gorm:"not null" json:"logged_at"`
	Embedding pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
