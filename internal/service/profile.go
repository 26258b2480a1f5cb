package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/aharui/backend/internal/mealplan"
	"github.com/aharui/backend/internal/models"
	"github.com/aharui/backend/internal/nutrition"
	"github.com/aharui/backend/internal/repository"
	"github.com/aharui/backend/internal/types"
	"github.com/google/uuid"
)

// ProfileService handles user profile operations
type ProfileService struct {
	repos *repository.Repositories
	now   Clock
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(repos *repository.Repositories, now Clock) *ProfileService {
	return &ProfileService{repos: repos, now: now.orDefault()}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrapOp("load profile", err)
	}
	return profile, nil
}

// UpdateProfile applies the provided fields. When the profile then holds
// everything the calorie engine needs, the targets are recalculated too.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrapOp("load profile", err)
	}

	if err := applyProfileUpdate(profile, req); err != nil {
		return nil, err
	}

	targets, err := targetsFor(profile, s.now())
	var missing *nutrition.MissingInputError
	switch {
	case err == nil:
		storeTargets(profile, targets)
	case errors.As(err, &missing):
		log.Printf("[Profile] Skipping target recalculation for user %s: %v", userID, err)
	default:
		return nil, err
	}

	if err := s.repos.Profiles.Save(ctx, profile); err != nil {
		return nil, wrapOp("save profile", err)
	}
	return profile, nil
}

// CalculateCalorieTarget recomputes and stores the calorie and macro targets
func (s *ProfileService) CalculateCalorieTarget(ctx context.Context, userID uuid.UUID) (*nutrition.Targets, error) {
	profile, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, wrapOp("load profile", err)
	}

	targets, err := targetsFor(profile, s.now())
	if err != nil {
		return nil, err
	}

	storeTargets(profile, targets)
	if err := s.repos.Profiles.Save(ctx, profile); err != nil {
		return nil, wrapOp("save profile", err)
	}

	log.Printf("[Profile] User %s calorie target set to %d kcal", userID, targets.DailyCalories)
	return &targets, nil
}

func applyProfileUpdate(p *models.UserProfile, req *types.UpdateProfileRequest) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil {
		g, err := nutrition.ParseGender(*req.Gender)
		if err != nil {
			return invalidInput("%v", err)
		}
		p.Gender = string(g)
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(models.DateLayout, *req.DateOfBirth)
		if err != nil {
			return invalidInput("date_of_birth must be YYYY-MM-DD")
		}
		p.DateOfBirth = &dob
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 {
			return invalidInput("height_cm must be positive")
		}
		p.HeightCm = *req.HeightCm
	}
	if req.CurrentWeightKg != nil {
		if *req.CurrentWeightKg <= 0 {
			return invalidInput("current_weight_kg must be positive")
		}
		p.CurrentWeightKg = *req.CurrentWeightKg
	}
	if req.TargetWeightKg != nil {
		if *req.TargetWeightKg <= 0 {
			return invalidInput("target_weight_kg must be positive")
		}
		p.TargetWeightKg = *req.TargetWeightKg
	}
	if req.Goal != nil {
		g, err := nutrition.ParseGoal(*req.Goal)
		if err != nil {
			return invalidInput("%v", err)
		}
		p.Goal = string(g)
	}
	if req.ActivityLevel != nil {
		l, err := nutrition.ParseActivityLevel(*req.ActivityLevel)
		if err != nil {
			return invalidInput("%v", err)
		}
		p.ActivityLevel = string(l)
	}
	if req.DailyWaterTargetMl != nil {
		if *req.DailyWaterTargetMl <= 0 {
			return invalidInput("daily_water_target_ml must be positive")
		}
		p.DailyWaterTargetMl = *req.DailyWaterTargetMl
	}
	return nil
}

// profileInput converts the stored profile into calorie engine input.
// Empty enum columns are left for the engine's defaults.
func profileInput(p *models.UserProfile) (nutrition.ProfileInput, error) {
	in := nutrition.ProfileInput{
		WeightKg:       p.CurrentWeightKg,
		HeightCm:       p.HeightCm,
		DateOfBirth:    p.DateOfBirth,
		TargetWeightKg: p.TargetWeightKg,
	}

	if p.Gender != "" {
		g, err := nutrition.ParseGender(p.Gender)
		if err != nil {
			return in, invalidInput("%v", err)
		}
		in.Gender = g
	}
	if p.ActivityLevel != "" {
		l, err := nutrition.ParseActivityLevel(p.ActivityLevel)
		if err != nil {
			return in, invalidInput("%v", err)
		}
		in.ActivityLevel = l
	}
	if p.Goal != "" {
		g, err := nutrition.ParseGoal(p.Goal)
		if err != nil {
			return in, invalidInput("%v", err)
		}
		in.Goal = g
	}
	return in, nil
}

func targetsFor(p *models.UserProfile, now time.Time) (nutrition.Targets, error) {
	in, err := profileInput(p)
	if err != nil {
		return nutrition.Targets{}, err
	}
	return nutrition.ComputeTargets(in, now)
}

func storeTargets(p *models.UserProfile, t nutrition.Targets) {
	p.DailyCalorieTarget = t.DailyCalories
	p.ProteinTargetG = t.Macros.ProteinG
	p.CarbsTargetG = t.Macros.CarbsG
	p.FatTargetG = t.Macros.FatG
}

// promptProfile is the view of a profile the meal plan prompt is built from
func promptProfile(p *models.UserProfile, t nutrition.Targets) mealplan.PromptProfile {
	return mealplan.PromptProfile{
		Gender:          p.Gender,
		Age:             t.Age,
		HeightCm:        p.HeightCm,
		CurrentWeightKg: p.CurrentWeightKg,
		TargetWeightKg:  t.TargetWeightKg,
		Goal:            p.Goal,
		ActivityLevel:   p.ActivityLevel,
	}
}
