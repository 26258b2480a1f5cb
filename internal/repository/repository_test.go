package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/testhelpers"
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meal(userID uuid.UUID, date, name, source string, calories int) models.MealLog {
	return models.MealLog{
		UserID:    userID,
		Date:      date,
		MealType:  "LUNCH",
		FoodName:  name,
		Source:    source,
		Calories:  calories,
		LoggedAt:  time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		Embedding: pgvector.NewVector([]float32{float32(len(name)), 1, 1}),
	}
}

func TestMealRepositorySearchLiteralWildcards(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewMealRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.CreateBatch(ctx, []models.MealLog{
		meal(userID, "2024-03-20", "100% Juice", models.SourceManual, 120),
		meal(userID, "2024-03-20", "Chicken_Wrap", models.SourceManual, 450),
		meal(userID, "2024-03-20", `C:\Snacks`, models.SourceManual, 90),
		meal(userID, "2024-03-20", "Oatmeal", models.SourceManual, 300),
	}))

	names := func(query string) []string {
		t.Helper()
		meals, err := repo.Search(ctx, userID, query, pgvector.NewVector([]float32{1, 1, 1}), 10)
		require.NoError(t, err)
		var out []string
		for _, m := range meals {
			out = append(out, m.FoodName)
		}
		return out
	}

	assert.Equal(t, []string{"100% Juice"}, names("%"))
	assert.Equal(t, []string{"Chicken_Wrap"}, names("_"))
	assert.Equal(t, []string{`C:\Snacks`}, names(`\`))
	assert.Empty(t, names("1_0"))
	assert.Equal(t, []string{"Oatmeal"}, names("OAT"))
}

func TestMealRepositoryCounts(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewMealRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.CreateBatch(ctx, []models.MealLog{
		meal(userID, "2024-03-19", "Toast", models.SourceManual, 200),
		meal(userID, "2024-03-20", "Soup", models.SourceManual, 300),
		meal(userID, "2024-03-20", "Scanned Bar", models.SourceOCR, 190),
		meal(userID, "2024-03-20", "Planned Salad", models.SourceAIPlan, 500),
		meal(userID, "2024-03-21", "Future Snack", models.SourceManual, 100),
		meal(uuid.New(), "2024-03-20", "Someone Else", models.SourceManual, 900),
	}))

	total, err := repo.SumLoggedCalories(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, 490, total)

	n, err := repo.CountLogged(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountLoggedOn(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountBySource(ctx, userID, models.SourceOCR, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	meals, err := repo.FindByDateRange(ctx, userID, "2024-03-20", "2024-03-21")
	require.NoError(t, err)
	assert.Len(t, meals, 4)

	total, err = repo.SumLoggedCalories(ctx, userID, "2024-01-01")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMealRepositoryDelete(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewMealRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	past := meal(userID, "2024-03-19", "Old Plan", models.SourceAIPlan, 400)
	eaten := meal(userID, "2024-03-20", "Eaten", models.SourceManual, 400)
	require.NoError(t, repo.Create(ctx, &past))
	require.NoError(t, repo.Create(ctx, &eaten))
	require.NoError(t, repo.CreateBatch(ctx, []models.MealLog{
		meal(userID, "2024-03-20", "Plan A", models.SourceAIPlan, 400),
		meal(userID, "2024-03-25", "Plan B", models.SourceAIPlan, 400),
	}))

	removed, err := repo.DeletePlannedFrom(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = repo.FindByID(ctx, userID, past.ID)
	assert.NoError(t, err, "plan meals before the cut-off are kept")
	_, err = repo.FindByID(ctx, userID, eaten.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), eaten.ID), ErrNotFound, "meals are scoped to their owner")
	require.NoError(t, repo.Delete(ctx, userID, eaten.ID))
	_, err = repo.FindByID(ctx, userID, eaten.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDailyLogRepository(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewDailyLogRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	dl, err := repo.FindOrInit(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, dl.ID)

	dl.WaterMl = 750
	require.NoError(t, repo.Save(ctx, dl))
	assert.NotEqual(t, uuid.Nil, dl.ID)

	again, err := repo.FindOrInit(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, dl.ID, again.ID)
	assert.Equal(t, 750, again.WaterMl)

	again.TotalCalories = 1200
	require.NoError(t, repo.Save(ctx, again))

	logs, err := repo.FindByDateRange(ctx, userID, "2024-03-14", "2024-03-20")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1200, logs[0].TotalCalories)

	_, err = repo.FindByDate(ctx, userID, "2024-03-21")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaterLogRepository(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewWaterLogRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	for _, entry := range []models.WaterLog{
		{UserID: userID, Date: "2024-03-19", AmountMl: 1000, Timestamp: time.Now()},
		{UserID: userID, Date: "2024-03-20", AmountMl: 250, Timestamp: time.Now()},
		{UserID: userID, Date: "2024-03-20", AmountMl: 500, Timestamp: time.Now()},
	} {
		entry := entry
		require.NoError(t, repo.Create(ctx, &entry))
	}

	sum, err := repo.SumByDate(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, 750, sum)

	total, err := repo.Total(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1750), total)

	entries, err := repo.FindByDate(ctx, userID, "2024-03-20")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestShoppingListRepository(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	repo := NewShoppingListRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	list := &models.ShoppingList{
		UserID: userID,
		Title:  "Week",
		Items: []models.ShoppingItem{
			{Name: "Oats", Quantity: "1 bag", Category: "Grains"},
			{Name: "Milk", Quantity: "1 l", Category: "Dairy"},
		},
	}
	require.NoError(t, repo.Create(ctx, list))

	stored, err := repo.FindByID(ctx, userID, list.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Milk", stored.Items[1].Name)

	stored.Items[0].Checked = true
	require.NoError(t, repo.Save(ctx, stored))

	lists, err := repo.FindAllByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.True(t, lists[0].Items[0].Checked)

	_, err = repo.FindByID(ctx, uuid.New(), list.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoriesTransaction(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	ctx := context.Background()
	repos := NewRepositories(db)

	user := &models.User{Name: "Tx", Email: "tx@example.com", PasswordHash: "hash"}
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	_, err = repos.Users.FindByEmail(ctx, "tx@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repos.Transaction(ctx, func(tx *Repositories) error {
		return tx.Users.Create(ctx, user)
	})
	require.NoError(t, err)

	found, err := repos.Users.FindByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
