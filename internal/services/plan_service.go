package services

import (
	"context"
	"errors"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/health"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
)

var ErrGeneratorUnavailable = errors.New("plan generator is not configured")

type planStore interface {
	Create(ctx context.Context, input repository.CreatePlanInput) (*models.Plan, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]models.Plan, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	GetByID(ctx context.Context, planID int64) (*models.Plan, error)
}

type PlanService struct {
	planRepo    planStore
	profileRepo profileReader
	generator   PlanGenerator
}

func NewPlanService(planRepo planStore, profileRepo profileReader, generator PlanGenerator) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		profileRepo: profileRepo,
		generator:   generator,
	}
}

// GeneratePlan produces and stores a fresh plan of the requested type.
// Generation is protected content: an incomplete profile is refused with
// ErrProfileIncomplete so the caller can redirect into the setup wizard.
func (s *PlanService) GeneratePlan(ctx context.Context, userID int64, planType string) (*models.Plan, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	if planType != models.PlanTypeWorkout && planType != models.PlanTypeNutrition {
		return nil, ErrInvalidInput
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !health.IsProfileComplete(profile) {
		return nil, ErrProfileIncomplete
	}

	metrics := health.Compute(profile)
	request := PlanRequest{
		PlanType:       planType,
		Age:            *profile.Age,
		Gender:         *profile.Gender,
		HeightCM:       *profile.HeightCM,
		WeightKG:       *profile.WeightKG,
		ActivityLevel:  *profile.ActivityLevel,
		FitnessGoal:    *profile.FitnessGoal,
		TargetCalories: *metrics.TargetCalories,
		TargetProtein:  *metrics.TargetProtein,
		TargetCarbs:    *metrics.TargetCarbs,
		TargetFat:      *metrics.TargetFat,
	}
	if profile.GymDaysPerWeek != nil {
		request.GymDaysPerWeek = *profile.GymDaysPerWeek
	}
	if profile.DietaryRestrictions != nil {
		request.DietaryRestrictions = *profile.DietaryRestrictions
	}
	if profile.Allergies != nil {
		request.Allergies = *profile.Allergies
	}

	result, err := s.generator.GeneratePlan(ctx, request)
	if err != nil {
		return nil, err
	}

	return s.planRepo.Create(ctx, repository.CreatePlanInput{
		UserID:   userID,
		PlanType: planType,
		Title:    result.Title,
		Content:  result.Content,
	})
}

func (s *PlanService) ListPlans(ctx context.Context, userID int64, page, limit int) ([]models.Plan, int, error) {
	if page < 1 || limit < 1 {
		return nil, 0, ErrInvalidInput
	}
	total, err := s.planRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	plans, err := s.planRepo.ListByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// GetPlan enforces ownership: users only ever see their own plans.
func (s *PlanService) GetPlan(ctx context.Context, userID, planID int64) (*models.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrForbidden
	}
	return plan, nil
}
