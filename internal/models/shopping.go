package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

type ShoppingList struct {
	ID        uuid.UUID                         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID                         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title     string                            `gorm:"size:255;not null" json:"title"`
	Items     datatypes.JSONSlice[ShoppingItem] `json:"items"`
	CreatedAt time.Time                         `json:"created_at"`
	UpdatedAt time.Time                         `json:"updated_at"`
}

func (s *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
