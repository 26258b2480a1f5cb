package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

// shoppingWindowDays is how far ahead planned meals feed a shopping list
const shoppingWindowDays = 7

// MealPlanner is the AI side of planning
type MealPlanner interface {
	GenerateWeeklyMealPlan(ctx context.Context, profile mealplan.PromptProfile, targetCalories int) (*mealplan.WeeklyMealPlan, error)
	GenerateShoppingList(ctx context.Context, ingredients []string) ([]mealplan.ShoppingItem, error)
}

// PlanningService generates meal plans and shopping lists
type PlanningService struct {
	repos   *repository.Repositories
	planner MealPlanner
	cache   PlanCache
	now     Clock
}

var _ IPlanningService = (*PlanningService)(nil)

// NewPlanningService creates the service. cache may be nil.
func NewPlanningService(repos *repository.Repositories, planner MealPlanner, cache PlanCache, now Clock) *PlanningService {
	return &PlanningService{repos: repos, planner: planner, cache: cache, now: now.orDefault()}
}

// GenerateMealPlan asks the AI for a week of meals and stores day i of the
// plan as ai_plan meals on today+i. Earlier plan meals from today on are replaced.
func (s *PlanningService) GenerateMealPlan(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error) {
	profile, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrapOp("load profile", err)
	}

	now := s.now()
	targets, err := targetsFor(profile, now)
	if err != nil {
		return nil, err
	}

	plan, err := s.planner.GenerateWeeklyMealPlan(ctx, promptProfile(profile, targets), targets.DailyCalories)
	if err != nil {
		return nil, err
	}

	var meals []models.MealLog
	for i, day := range plan.Days {
		date := dateOf(now.AddDate(0, 0, i))
		for _, m := range day.Meals {
			meals = append(meals, models.MealLog{
				UserID:    userID,
				Date:      date,
				MealType:  string(m.MealType),
				FoodName:  m.Name,
				Source:    models.SourceAIPlan,
				Calories:  m.Calories,
				ProteinG:  m.ProteinG,
				CarbsG:    m.CarbsG,
				FatG:      m.FatG,
				Quantity:  m.Quantity(),
				LoggedAt:  now,
				Embedding: GenerateEmbedding(m.Name),
			})
		}
	}

	today := dateOf(now)
	var replaced int64
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		n, err := tx.Meals.DeletePlannedFrom(ctx, userID, today)
		if err != nil {
			return wrapOp("clear previous plan", err)
		}
		replaced = n
		if err := tx.Meals.CreateBatch(ctx, meals); err != nil {
			return wrapOp("save meal plan", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Planning] Stored %d planned meals for user %s (replaced %d)", len(meals), userID, replaced)

	resp := &types.MealPlanResponse{
		StartDate:      today,
		TargetCalories: targets.DailyCalories,
		Plan:           plan,
		MealsCreated:   len(meals),
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, userID, resp); err != nil {
			log.Printf("[Planning] Failed to cache meal plan for user %s: %v", userID, err)
		}
	}
	return resp, nil
}

// LatestMealPlan returns the most recently generated plan while it is cached
func (s *PlanningService) LatestMealPlan(ctx context.Context, userID uuid.UUID) (*types.MealPlanResponse, error) {
	if s.cache == nil {
		return nil, ErrNotFound
	}
	plan, err := s.cache.Latest(ctx, userID)
	if err != nil {
		return nil, wrapOp("load cached meal plan", err)
	}
	return plan, nil
}

// GenerateShoppingList consolidates the ingredients of the coming week's meals
func (s *PlanningService) GenerateShoppingList(ctx context.Context, userID uuid.UUID) (*models.ShoppingList, error) {
	now := s.now()
	today := dateOf(now)
	end := dateOf(now.AddDate(0, 0, shoppingWindowDays))

	meals, err := s.repos.Meals.FindByDateRange(ctx, userID, today, end)
	if err != nil {
		return nil, wrapOp("load meals", err)
	}
	if len(meals) == 0 {
		return nil, ErrNoMealsForPeriod
	}

	quantities := make([]string, 0, len(meals))
	for _, m := range meals {
		if m.Quantity != "" {
			quantities = append(quantities, m.Quantity)
		} else {
			quantities = append(quantities, m.FoodName)
		}
	}

	items, err := s.planner.GenerateShoppingList(ctx, mealplan.FlattenIngredients(quantities))
	if err != nil {
		return nil, err
	}

	list := &models.ShoppingList{
		UserID: userID,
		Title:  fmt.Sprintf("AI Shopping List - Week of %s", today),
	}
	for _, item := range items {
		list.Items = append(list.Items, models.ShoppingItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Category: item.Category,
			Checked:  item.Checked,
		})
	}

	if err := s.repos.ShoppingLists.Create(ctx, list); err != nil {
		return nil, wrapOp("save shopping list", err)
	}
	log.Printf("[Planning] Created shopping list %s with %d items", list.ID, len(list.Items))
	return list, nil
}

func (s *PlanningService) ListShoppingLists(ctx context.Context, userID uuid.UUID) ([]models.ShoppingList, error) {
	lists, err := s.repos.ShoppingLists.FindAllByUserID(ctx, userID)
	if err != nil {
		return nil, wrapOp("load shopping lists", err)
	}
	return lists, nil
}

func (s *PlanningService) GetShoppingList(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repos.ShoppingLists.FindByID(ctx, userID, listID)
	if err != nil {
		return nil, wrapOp("load shopping list", err)
	}
	return list, nil
}

// ToggleShoppingItem flips the checked flag of the item at index
func (s *PlanningService) ToggleShoppingItem(ctx context.Context, userID, listID uuid.UUID, index int) (*models.ShoppingList, error) {
	list, err := s.repos.ShoppingLists.FindByID(ctx, userID, listID)
	if err != nil {
		return nil, wrapOp("load shopping list", err)
	}
	if index < 0 || index >= len(list.Items) {
		return nil, fmt.Errorf("%w: shopping list has no item %d", ErrNotFound, index)
	}

	list.Items[index].Checked = !list.Items[index].Checked
	if err := s.repos.ShoppingLists.Save(ctx, list); err != nil {
		return nil, wrapOp("save shopping list", err)
	}
	return list, nil
}

func (s *PlanningService) DeleteShoppingList(ctx context.Context, userID, listID uuid.UUID) error {
	err := s.repos.ShoppingLists.Delete(ctx, userID, listID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return wrapOp("delete shopping list", err)
	}
	return err
}
