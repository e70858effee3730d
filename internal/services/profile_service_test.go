package services

import (
	"context"
	"errors"
	"testing"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
)

func intPtr(v int) *int            { return &v }
func floatPtr(v float64) *float64  { return &v }
func strPtr(v string) *string      { return &v }
func listPtr(v []string) *[]string { return &v }

type stubProfileRepo struct {
	profile    *models.Profile
	getErr     error
	submitErr  error
	lastSubmit repository.SubmitProfileInput
	lastPatch  repository.UpdateProfileInput
	submits    int
}

func (r *stubProfileRepo) GetByUserID(_ context.Context, _ int64) (*models.Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.profile, nil
}

func (r *stubProfileRepo) Submit(_ context.Context, userID int64, req repository.SubmitProfileInput) (*models.Profile, error) {
	r.lastSubmit = req
	r.submits++
	if r.submitErr != nil {
		return nil, r.submitErr
	}
	r.profile = &models.Profile{
		UserID:        userID,
		Age:           &req.Age,
		Gender:        &req.Gender,
		HeightCM:      &req.HeightCM,
		WeightKG:      &req.WeightKG,
		ActivityLevel: &req.ActivityLevel,
		FitnessGoal:   &req.FitnessGoal,
	}
	return r.profile, nil
}

func (r *stubProfileRepo) UpdatePartial(_ context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error) {
	r.lastPatch = req
	if r.profile == nil {
		r.profile = &models.Profile{UserID: userID}
	}
	if req.Age != nil {
		r.profile.Age = req.Age
	}
	if req.WeightKG != nil {
		r.profile.WeightKG = req.WeightKG
	}
	return r.profile, nil
}

type stubNotifier struct {
	changed []int64
}

func (n *stubNotifier) ProfileChanged(_ context.Context, userID int64) {
	n.changed = append(n.changed, userID)
}

func fillDraftComplete(t *testing.T, service *ProfileService, draftID string, userID int64) {
	t.Helper()
	// Two wizard steps: body metrics first, then goals.
	if _, err := service.UpdateDraftStep(draftID, userID, DraftFields{
		Age:      intPtr(25),
		Gender:   strPtr(models.GenderMale),
		HeightCM: floatPtr(175),
		WeightKG: floatPtr(70),
	}); err != nil {
		t.Fatalf("UpdateDraftStep (metrics): %v", err)
	}
	if _, err := service.UpdateDraftStep(draftID, userID, DraftFields{
		ActivityLevel: strPtr(models.ActivityModerate),
		FitnessGoal:   strPtr(models.GoalGainMuscle),
	}); err != nil {
		t.Fatalf("UpdateDraftStep (goals): %v", err)
	}
}

func TestDraftLifecycleSubmitsOnlyOnExplicitSubmission(t *testing.T) {
	repo := &stubProfileRepo{}
	notifier := &stubNotifier{}
	service := NewProfileService(repo, notifier)

	draft, err := service.StartDraft(42)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	fillDraftComplete(t, service, draft.ID, 42)

	if repo.submits != 0 {
		t.Fatalf("expected no persistence before submission, got %d writes", repo.submits)
	}
	if len(notifier.changed) != 0 {
		t.Fatalf("expected no change notification before submission")
	}

	profile, err := service.SubmitDraft(context.Background(), draft.ID, 42)
	if err != nil {
		t.Fatalf("SubmitDraft: %v", err)
	}
	if repo.submits != 1 {
		t.Fatalf("expected one write, got %d", repo.submits)
	}
	if profile.Age == nil || *profile.Age != 25 {
		t.Fatalf("unexpected stored age: %+v", profile.Age)
	}
	if len(notifier.changed) != 1 || notifier.changed[0] != 42 {
		t.Fatalf("expected change notification for user 42, got %v", notifier.changed)
	}

	// The draft is consumed by submission.
	if _, err := service.GetDraft(draft.ID, 42); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound after submission, got %v", err)
	}
}

func TestSubmitDraftRejectsIncompleteDraft(t *testing.T) {
	repo := &stubProfileRepo{}
	service := NewProfileService(repo, nil)

	draft, err := service.StartDraft(42)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}
	if _, err := service.UpdateDraftStep(draft.ID, 42, DraftFields{
		Age:    intPtr(25),
		Gender: strPtr(models.GenderMale),
	}); err != nil {
		t.Fatalf("UpdateDraftStep: %v", err)
	}

	if _, err := service.SubmitDraft(context.Background(), draft.ID, 42); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
	if repo.submits != 0 {
		t.Fatalf("incomplete draft must not be persisted")
	}

	// The draft survives the failed submission and can be finished.
	fillDraftComplete(t, service, draft.ID, 42)
	if _, err := service.SubmitDraft(context.Background(), draft.ID, 42); err != nil {
		t.Fatalf("SubmitDraft after completing: %v", err)
	}
}

func TestSubmitDraftForwardsOptionalFields(t *testing.T) {
	repo := &stubProfileRepo{}
	service := NewProfileService(repo, nil)

	draft, _ := service.StartDraft(42)
	fillDraftComplete(t, service, draft.ID, 42)
	if _, err := service.UpdateDraftStep(draft.ID, 42, DraftFields{
		GymDaysPerWeek:      intPtr(4),
		DietaryRestrictions: listPtr([]string{"vegetarian"}),
		Allergies:           listPtr([]string{"peanuts"}),
	}); err != nil {
		t.Fatalf("UpdateDraftStep (extras): %v", err)
	}

	if _, err := service.SubmitDraft(context.Background(), draft.ID, 42); err != nil {
		t.Fatalf("SubmitDraft: %v", err)
	}
	if repo.lastSubmit.GymDaysPerWeek == nil || *repo.lastSubmit.GymDaysPerWeek != 4 {
		t.Fatalf("expected gym days forwarded, got %+v", repo.lastSubmit.GymDaysPerWeek)
	}
	if len(repo.lastSubmit.DietaryRestrictions) != 1 || repo.lastSubmit.DietaryRestrictions[0] != "vegetarian" {
		t.Fatalf("expected dietary restrictions forwarded, got %v", repo.lastSubmit.DietaryRestrictions)
	}
	if len(repo.lastSubmit.Allergies) != 1 {
		t.Fatalf("expected allergies forwarded, got %v", repo.lastSubmit.Allergies)
	}
}

func TestDraftIsPrivateToItsOwner(t *testing.T) {
	service := NewProfileService(&stubProfileRepo{}, nil)

	draft, _ := service.StartDraft(42)
	if _, err := service.GetDraft(draft.ID, 7); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected foreign draft access to fail, got %v", err)
	}
	if _, err := service.UpdateDraftStep(draft.ID, 7, DraftFields{Age: intPtr(30)}); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected foreign draft update to fail, got %v", err)
	}
}

func TestAbandonDraftDiscardsWithoutPersisting(t *testing.T) {
	repo := &stubProfileRepo{}
	service := NewProfileService(repo, nil)

	draft, _ := service.StartDraft(42)
	fillDraftComplete(t, service, draft.ID, 42)

	if err := service.AbandonDraft(draft.ID, 42); err != nil {
		t.Fatalf("AbandonDraft: %v", err)
	}
	if repo.submits != 0 {
		t.Fatalf("abandoned draft must not be persisted")
	}
	if _, err := service.GetDraft(draft.ID, 42); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected draft gone after abandon, got %v", err)
	}
}

func TestUpdateProfileNotifiesGate(t *testing.T) {
	repo := &stubProfileRepo{profile: &models.Profile{UserID: 42}}
	notifier := &stubNotifier{}
	service := NewProfileService(repo, notifier)

	if _, err := service.UpdateProfile(context.Background(), 42, repository.UpdateProfileInput{Age: intPtr(31)}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if len(notifier.changed) != 1 {
		t.Fatalf("expected gate notification after partial update")
	}
	if repo.lastPatch.Age == nil || *repo.lastPatch.Age != 31 {
		t.Fatalf("expected age forwarded, got %+v", repo.lastPatch.Age)
	}
}

func TestGetProfileReportsCompleteness(t *testing.T) {
	repo := &stubProfileRepo{profile: &models.Profile{
		UserID:        42,
		Age:           intPtr(25),
		Gender:        strPtr(models.GenderFemale),
		HeightCM:      floatPtr(165),
		WeightKG:      floatPtr(60),
		ActivityLevel: strPtr(models.ActivityLight),
		FitnessGoal:   strPtr(models.GoalLoseWeight),
	}}
	service := NewProfileService(repo, nil)

	_, complete, err := service.GetProfile(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !complete {
		t.Fatalf("expected complete profile")
	}

	repo.profile.FitnessGoal = nil
	_, complete, err = service.GetProfile(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if complete {
		t.Fatalf("expected incomplete after goal removal")
	}
}

func TestMetricsComputesFromSnapshot(t *testing.T) {
	repo := &stubProfileRepo{profile: &models.Profile{
		UserID:   42,
		WeightKG: floatPtr(70),
		HeightCM: floatPtr(175),
	}}
	service := NewProfileService(repo, nil)

	metrics, err := service.Metrics(context.Background(), 42)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if metrics.BMI == nil || *metrics.BMI != 22.9 {
		t.Fatalf("unexpected BMI: %+v", metrics.BMI)
	}
	if metrics.BMR != nil {
		t.Fatalf("expected BMR absent without age and gender")
	}
}
