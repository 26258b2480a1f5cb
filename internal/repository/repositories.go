package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups every repository over one database handle
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Profiles      ProfileRepository
	Meals         MealRepository
	DailyLogs     DailyLogRepository
	Water         WaterLogRepository
	Rewards       RewardRepository
	ShoppingLists ShoppingListRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Profiles:      NewProfileRepository(db),
		Meals:         NewMealRepository(db),
		DailyLogs:     NewDailyLogRepository(db),
		Water:         NewWaterLogRepository(db),
		Rewards:       NewRewardRepository(db),
		ShoppingLists: NewShoppingListRepository(db),
	}
}

// Transaction runs fn with repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise. fn must
// only use the repositories it is given.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
