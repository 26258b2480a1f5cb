package repository

import (
	"context"
	"strings"

	"github.com/aharui/backend/internal/models"
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealRepository interface {
	Create(ctx context.Context, meal *models.MealLog) error
	CreateBatch(ctx context.Context, meals []models.MealLog) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.MealLog, error)
	FindByDate(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error)
	FindByDateRange(ctx context.Context, userID uuid.UUID, from, to string) ([]models.MealLog, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeletePlannedFrom(ctx context.Context, userID uuid.UUID, from string) (int64, error)
	SumLoggedCalories(ctx context.Context, userID uuid.UUID, date string) (int, error)
	CountLogged(ctx context.Context, userID uuid.UUID, upTo string) (int64, error)
	CountLoggedOn(ctx context.Context, userID uuid.UUID, date string) (int64, error)
	CountBySource(ctx context.Context, userID uuid.UUID, source, upTo string) (int64, error)
	Search(ctx context.Context, userID uuid.UUID, query string, embedding pgvector.Vector, limit int) ([]models.MealLog, error)
}

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{db}
}

func (r *mealRepository) Create(ctx context.Context, meal *models.MealLog) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *mealRepository) CreateBatch(ctx context.Context, meals []models.MealLog) error {
	if len(meals) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&meals).Error
}

func (r *mealRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.MealLog, error) {
	var meal models.MealLog
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&meal).Error; err != nil {
		return nil, notFound(err)
	}
	return &meal, nil
}

func (r *mealRepository) FindByDate(ctx context.Context, userID uuid.UUID, date string) ([]models.MealLog, error) {
	var meals []models.MealLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("logged_at ASC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) FindByDateRange(ctx context.Context, userID uuid.UUID, from, to string) ([]models.MealLog, error) {
	var meals []models.MealLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC, logged_at ASC").
		Find(&meals).Error
	return meals, err
}

func (r *mealRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.MealLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlannedFrom drops generated plan meals dated on or after from
func (r *mealRepository) DeletePlannedFrom(ctx context.Context, userID uuid.UUID, from string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND source = ? AND date >= ?", userID, models.SourceAIPlan, from).
		Delete(&models.MealLog{})
	return res.RowsAffected, res.Error
}

func (r *mealRepository) SumLoggedCalories(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.MealLog{}).
		Select("COALESCE(SUM(calories), 0)").
		Where("user_id = ? AND date = ? AND source IN ?", userID, date, models.LoggedSources).
		Scan(&total).Error
	return int(total), err
}

func (r *mealRepository) CountLogged(ctx context.Context, userID uuid.UUID, upTo string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealLog{}).
		Where("user_id = ? AND date <= ? AND source IN ?", userID, upTo, models.LoggedSources).
		Count(&count).Error
	return count, err
}

func (r *mealRepository) CountLoggedOn(ctx context.Context, userID uuid.UUID, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealLog{}).
		Where("user_id = ? AND date = ? AND source IN ?", userID, date, models.LoggedSources).
		Count(&count).Error
	return count, err
}

func (r *mealRepository) CountBySource(ctx context.Context, userID uuid.UUID, source, upTo string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MealLog{}).
		Where("user_id = ? AND source = ? AND date <= ?", userID, source, upTo).
		Count(&count).Error
	return count, err
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches on food name. On postgres the matches are ranked by embedding distance.
func (r *mealRepository) Search(ctx context.Context, userID uuid.UUID, query string, embedding pgvector.Vector, limit int) ([]models.MealLog, error) {
	var meals []models.MealLog
	q := r.db.WithContext(ctx).
		Where(`user_id = ? AND LOWER(food_name) LIKE ? ESCAPE '\'`, userID, "%"+likeEscaper.Replace(strings.ToLower(query))+"%")

	if r.db.Dialector.Name() == "postgres" {
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "embedding <-> ?",
			Vars:               []interface{}{embedding},
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order("logged_at DESC")
	}

	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&meals).Error
	return meals, err
}
