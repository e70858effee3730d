package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/health"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrDraftNotFound     = errors.New("draft not found")
	ErrProfileIncomplete = errors.New("profile incomplete")
)

// draftTTL bounds how long an abandoned wizard draft lingers in memory.
const draftTTL = 24 * time.Hour

type profileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	Submit(ctx context.Context, userID int64, req repository.SubmitProfileInput) (*models.Profile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error)
}

// profileChangeNotifier lets the gate react the moment a submission lands,
// without polling.
type profileChangeNotifier interface {
	ProfileChanged(ctx context.Context, userID int64)
}

// Draft is one wizard session's in-progress profile. It lives only in
// memory and is owned exclusively by that session: nothing is persisted
// until Submit, and an abandoned draft simply expires.
type Draft struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Fields    DraftFields `json:"fields"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DraftFields is the mutable subset a wizard step may touch. Every field
// is optional; steps patch what they collected and leave the rest alone.
type DraftFields struct {
	Age                 *int      `json:"age"`
	Gender              *string   `json:"gender"`
	HeightCM            *float64  `json:"height_cm"`
	WeightKG            *float64  `json:"weight_kg"`
	ActivityLevel       *string   `json:"activity_level"`
	FitnessGoal         *string   `json:"fitness_goal"`
	GymDaysPerWeek      *int      `json:"gym_days_per_week"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	Allergies           *[]string `json:"allergies"`
}

type ProfileService struct {
	profileRepo profileStore
	notifier    profileChangeNotifier

	mu     sync.Mutex
	drafts map[string]*Draft
	now    func() time.Time
}

func NewProfileService(profileRepo profileStore, notifier profileChangeNotifier) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		notifier:    notifier,
		drafts:      make(map[string]*Draft),
		now:         time.Now,
	}
}

// GetProfile returns the stored profile together with its completeness
// verdict, recomputed from scratch on every read.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, bool, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return profile, health.IsProfileComplete(profile), nil
}

// Metrics computes display metrics for the stored profile snapshot.
func (s *ProfileService) Metrics(ctx context.Context, userID int64) (models.HealthMetrics, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return models.HealthMetrics{}, err
	}
	return health.Compute(profile), nil
}

// UpdateProfile applies a partial update outside the wizard flow and
// notifies the gate, since a single field edit can flip completeness.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.UpdatePartial(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.notifyChanged(ctx, userID)
	return profile, nil
}

// StartDraft opens a fresh wizard session for the user.
func (s *ProfileService) StartDraft(userID int64) (*Draft, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}
	now := s.now()
	draft := &Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.evictExpiredLocked(now)
	s.drafts[draft.ID] = draft
	s.mu.Unlock()

	return draft, nil
}

// GetDraft returns the caller's draft, or ErrDraftNotFound if it expired
// or belongs to someone else (drafts are session-private).
func (s *ProfileService) GetDraft(draftID string, userID int64) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked(draftID, userID)
}

// UpdateDraftStep merges one wizard step's fields into the draft. Only
// non-nil fields are applied; the rest of the draft is untouched.
func (s *ProfileService) UpdateDraftStep(draftID string, userID int64, step DraftFields) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.draftLocked(draftID, userID)
	if err != nil {
		return nil, err
	}

	if step.Age != nil {
		draft.Fields.Age = step.Age
	}
	if step.Gender != nil {
		draft.Fields.Gender = step.Gender
	}
	if step.HeightCM != nil {
		draft.Fields.HeightCM = step.HeightCM
	}
	if step.WeightKG != nil {
		draft.Fields.WeightKG = step.WeightKG
	}
	if step.ActivityLevel != nil {
		draft.Fields.ActivityLevel = step.ActivityLevel
	}
	if step.FitnessGoal != nil {
		draft.Fields.FitnessGoal = step.FitnessGoal
	}
	if step.GymDaysPerWeek != nil {
		draft.Fields.GymDaysPerWeek = step.GymDaysPerWeek
	}
	if step.DietaryRestrictions != nil {
		draft.Fields.DietaryRestrictions = step.DietaryRestrictions
	}
	if step.Allergies != nil {
		draft.Fields.Allergies = step.Allergies
	}
	draft.UpdatedAt = s.now()

	return draft, nil
}

// SubmitDraft persists the draft as the canonical profile. The draft must
// satisfy the completeness invariant; optional fields may stay empty. On
// success the draft is discarded and the gate notified immediately.
func (s *ProfileService) SubmitDraft(ctx context.Context, draftID string, userID int64) (*models.Profile, error) {
	s.mu.Lock()
	draft, err := s.draftLocked(draftID, userID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	fields := draft.Fields
	s.mu.Unlock()

	if !health.IsProfileComplete(draftProfile(userID, fields)) {
		return nil, ErrProfileIncomplete
	}

	input := repository.SubmitProfileInput{
		Age:            *fields.Age,
		Gender:         *fields.Gender,
		HeightCM:       *fields.HeightCM,
		WeightKG:       *fields.WeightKG,
		ActivityLevel:  *fields.ActivityLevel,
		FitnessGoal:    *fields.FitnessGoal,
		GymDaysPerWeek: fields.GymDaysPerWeek,
	}
	if fields.DietaryRestrictions != nil {
		input.DietaryRestrictions = *fields.DietaryRestrictions
	}
	if fields.Allergies != nil {
		input.Allergies = *fields.Allergies
	}

	profile, err := s.profileRepo.Submit(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, draftID)
	s.mu.Unlock()

	s.notifyChanged(ctx, userID)
	return profile, nil
}

// AbandonDraft discards a draft without persisting anything.
func (s *ProfileService) AbandonDraft(draftID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.draftLocked(draftID, userID); err != nil {
		return err
	}
	delete(s.drafts, draftID)
	return nil
}

func (s *ProfileService) draftLocked(draftID string, userID int64) (*Draft, error) {
	draft, ok := s.drafts[draftID]
	if !ok || draft.UserID != userID {
		return nil, ErrDraftNotFound
	}
	if s.now().Sub(draft.UpdatedAt) > draftTTL {
		delete(s.drafts, draftID)
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (s *ProfileService) evictExpiredLocked(now time.Time) {
	for id, draft := range s.drafts {
		if now.Sub(draft.UpdatedAt) > draftTTL {
			delete(s.drafts, id)
		}
	}
}

func (s *ProfileService) notifyChanged(ctx context.Context, userID int64) {
	if s.notifier != nil {
		s.notifier.ProfileChanged(ctx, userID)
	}
}

// draftProfile shapes draft fields as a Profile so the shared completeness
// predicate applies to drafts and stored rows alike.
func draftProfile(userID int64, fields DraftFields) *models.Profile {
	return &models.Profile{
		UserID:              userID,
		Age:                 fields.Age,
		Gender:              fields.Gender,
		HeightCM:            fields.HeightCM,
		WeightKG:            fields.WeightKG,
		ActivityLevel:       fields.ActivityLevel,
		FitnessGoal:         fields.FitnessGoal,
		GymDaysPerWeek:      fields.GymDaysPerWeek,
		DietaryRestrictions: fields.DietaryRestrictions,
		Allergies:           fields.Allergies,
	}
}
