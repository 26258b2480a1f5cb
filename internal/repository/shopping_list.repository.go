package repository

import (
	"context"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShoppingListRepository interface {
	Create(ctx context.Context, list *models.ShoppingList) error
	FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingList, error)
	Save(ctx context.Context, list *models.ShoppingList) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db}
}

func (r *shoppingListRepository) Create(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *shoppingListRepository) FindAllByUserID(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error
	return lists, err
}

func (r *shoppingListRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&list).Error; err != nil {
		return nil, notFound(err)
	}
	return &list, nil
}

func (r *shoppingListRepository) Save(ctx context.Context, list *models.ShoppingList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

func (r *shoppingListRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ShoppingList{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
