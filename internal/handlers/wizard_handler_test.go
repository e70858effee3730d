package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/repository"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/services"
)

type stubProfileStore struct {
	profile     *models.Profile
	getErr      error
	submitted   bool
	lastSubmit  repository.SubmitProfileInput
	lastPartial repository.UpdateProfileInput
}

func (s *stubProfileStore) GetByUserID(_ context.Context, _ int64) (*models.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.profile == nil {
		return nil, pgx.ErrNoRows
	}
	return s.profile, nil
}

func (s *stubProfileStore) Submit(_ context.Context, userID int64, req repository.SubmitProfileInput) (*models.Profile, error) {
	s.submitted = true
	s.lastSubmit = req
	s.profile = &models.Profile{
		UserID:              userID,
		Age:                 &req.Age,
		Gender:              &req.Gender,
		HeightCM:            &req.HeightCM,
		WeightKG:            &req.WeightKG,
		ActivityLevel:       &req.ActivityLevel,
		FitnessGoal:         &req.FitnessGoal,
		GymDaysPerWeek:      req.GymDaysPerWeek,
		DietaryRestrictions: &req.DietaryRestrictions,
		Allergies:           &req.Allergies,
	}
	return s.profile, nil
}

func (s *stubProfileStore) UpdatePartial(_ context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error) {
	s.lastPartial = req
	if s.profile == nil {
		s.profile = &models.Profile{UserID: userID}
	}
	if req.Age != nil {
		s.profile.Age = req.Age
	}
	if req.Gender != nil {
		s.profile.Gender = req.Gender
	}
	if req.WeightKG != nil {
		s.profile.WeightKG = req.WeightKG
	}
	return s.profile, nil
}

func newWizardApp(repo *stubProfileStore, userID string) (*fiber.App, *services.ProfileService) {
	profileService := services.NewProfileService(repo, nil)
	handler := NewWizardHandler(profileService)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Post("/api/v1/profile/wizard", handler.StartDraft)
	app.Get("/api/v1/profile/wizard/:id", handler.GetDraft)
	app.Patch("/api/v1/profile/wizard/:id", handler.UpdateStep)
	app.Post("/api/v1/profile/wizard/:id/submit", handler.Submit)
	app.Delete("/api/v1/profile/wizard/:id", handler.Abandon)
	return app, profileService
}

func TestWizardPersistsOnlyOnSubmit(t *testing.T) {
	repo := &stubProfileStore{}
	app, _ := newWizardApp(repo, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/wizard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		Draft services.Draft `json:"draft"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if created.Draft.ID == "" {
		t.Fatal("expected a draft id")
	}

	body := `{"age":25,"gender":"male","height_cm":175,"weight_kg":70,"activity_level":"moderate","fitness_goal":"gain_muscle"}`
	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/profile/wizard/"+created.Draft.ID, strings.NewReader(body))
	patch.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(patch)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.submitted {
		t.Fatal("patching a step must not persist anything")
	}

	submit := httptest.NewRequest(http.MethodPost, "/api/v1/profile/wizard/"+created.Draft.ID+"/submit", nil)
	resp, err = app.Test(submit)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !repo.submitted {
		t.Fatal("expected submit to persist the profile")
	}
	if repo.lastSubmit.Gender != "male" || repo.lastSubmit.Age != 25 {
		t.Fatalf("unexpected submit input: %+v", repo.lastSubmit)
	}

	var payload struct {
		ProfileComplete bool `json:"profile_complete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.ProfileComplete {
		t.Fatal("expected profile_complete true after submit")
	}
}

func TestWizardSubmitRejectsIncompleteDraft(t *testing.T) {
	repo := &stubProfileStore{}
	app, profileService := newWizardApp(repo, "42")

	draft, err := profileService.StartDraft(42)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	body := `{"age":25,"gender":"male"}`
	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/profile/wizard/"+draft.ID, strings.NewReader(body))
	patch.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(patch)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	submit := httptest.NewRequest(http.MethodPost, "/api/v1/profile/wizard/"+draft.ID+"/submit", nil)
	resp, err = app.Test(submit)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if repo.submitted {
		t.Fatal("an incomplete draft must not be persisted")
	}
}

func TestWizardUpdateStepRejectsUnknownGender(t *testing.T) {
	repo := &stubProfileStore{}
	app, profileService := newWizardApp(repo, "42")

	draft, err := profileService.StartDraft(42)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	body := `{"gender":"robot"}`
	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/profile/wizard/"+draft.ID, strings.NewReader(body))
	patch.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(patch)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWizardDraftNotVisibleToOtherUsers(t *testing.T) {
	repo := &stubProfileStore{}
	profileService := services.NewProfileService(repo, nil)
	handler := NewWizardHandler(profileService)

	draft, err := profileService.StartDraft(7)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "8")
		return c.Next()
	})
	app.Get("/api/v1/profile/wizard/:id", handler.GetDraft)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/wizard/"+draft.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign draft, got %d", resp.StatusCode)
	}
}

func TestWizardAbandonDiscardsDraft(t *testing.T) {
	repo := &stubProfileStore{}
	app, profileService := newWizardApp(repo, "42")

	draft, err := profileService.StartDraft(42)
	if err != nil {
		t.Fatalf("StartDraft: %v", err)
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/profile/wizard/"+draft.ID, nil)
	resp, err := app.Test(del)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/profile/wizard/"+draft.ID, nil)
	resp, err = app.Test(get)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after abandon, got %d", resp.StatusCode)
	}
	if repo.submitted {
		t.Fatal("abandoning a draft must not persist anything")
	}
}
