package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/gate"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

type memFlagStore struct {
	mu    sync.Mutex
	flags map[string]bool
}

func newMemFlagStore() *memFlagStore {
	return &memFlagStore{flags: make(map[string]bool)}
}

func (s *memFlagStore) Get(_ context.Context, _ int64, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags[key], nil
}

func (s *memFlagStore) Set(_ context.Context, _ int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = true
	return nil
}

func (s *memFlagStore) Clear(_ context.Context, _ int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, key)
	return nil
}

func gateCompleteProfile() *models.Profile {
	return &models.Profile{
		UserID:        42,
		Age:           intPtr(25),
		Gender:        strPtr(models.GenderMale),
		HeightCM:      floatPtr(175),
		WeightKG:      floatPtr(70),
		ActivityLevel: strPtr(models.ActivityModerate),
		FitnessGoal:   strPtr(models.GoalGainMuscle),
	}
}

const gateTestDelay = 20 * time.Millisecond

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestGateEvaluateAnonymous(t *testing.T) {
	service := NewGateService(&stubProfileRepo{}, newMemFlagStore(), gateTestDelay, nil, nil)

	status := service.Evaluate(context.Background(), 0)
	if status.State != gate.StateAnonymous {
		t.Fatalf("expected anonymous, got %s", status.State)
	}
	if status.Protected.Verdict != gate.VerdictWait {
		t.Fatalf("expected protected guard to defer to auth, got %+v", status.Protected)
	}
	if status.Public.Verdict != gate.VerdictAllow {
		t.Fatalf("expected public content allowed, got %+v", status.Public)
	}
}

func TestGateEvaluateIncompleteRedirectsBothRouteClasses(t *testing.T) {
	// Identity present, profile row exists but is empty.
	service := NewGateService(&stubProfileRepo{profile: &models.Profile{UserID: 42}}, newMemFlagStore(), gateTestDelay, nil, nil)

	status := service.Evaluate(context.Background(), 42)
	if status.State != gate.StateIncomplete {
		t.Fatalf("expected incomplete, got %s", status.State)
	}
	if status.Protected.Verdict != gate.VerdictRedirect || status.Protected.Target != gate.TargetProfileSetup {
		t.Fatalf("expected redirect to profile setup, got %+v", status.Protected)
	}
	if status.Public.Verdict != gate.VerdictRedirect || status.Public.Target != gate.TargetProfileSetup {
		t.Fatalf("expected public route to redirect to profile setup, got %+v", status.Public)
	}
}

func TestGateEvaluateComplete(t *testing.T) {
	service := NewGateService(&stubProfileRepo{profile: gateCompleteProfile()}, newMemFlagStore(), gateTestDelay, nil, nil)

	status := service.Evaluate(context.Background(), 42)
	if status.State != gate.StateComplete {
		t.Fatalf("expected complete, got %s", status.State)
	}
	if status.Protected.Verdict != gate.VerdictAllow {
		t.Fatalf("expected protected content allowed, got %+v", status.Protected)
	}
	if status.Public.Verdict != gate.VerdictRedirect || status.Public.Target != gate.TargetDashboard {
		t.Fatalf("expected public route to redirect to dashboard, got %+v", status.Public)
	}
}

func TestGateTreatsFetchFailureAsIncomplete(t *testing.T) {
	service := NewGateService(&stubProfileRepo{getErr: errors.New("db down")}, newMemFlagStore(), gateTestDelay, nil, nil)

	status := service.Evaluate(context.Background(), 42)
	if status.State != gate.StateIncomplete {
		t.Fatalf("expected fail-safe incomplete, got %s", status.State)
	}
	if !status.ProfileMissing {
		t.Fatalf("expected profile reported missing")
	}
}

func TestGateNudgeOpensAfterDelayAndClosesOnDemand(t *testing.T) {
	service := NewGateService(&stubProfileRepo{}, newMemFlagStore(), gateTestDelay, nil, nil)

	status := service.Evaluate(context.Background(), 42)
	if status.NudgeOpen {
		t.Fatalf("nudge must not open immediately")
	}

	waitFor(t, func() bool { return service.NudgeOpen(42) }, "nudge to open")

	service.CloseNudge(42)
	if service.NudgeOpen(42) {
		t.Fatalf("expected nudge closed")
	}
}

func TestGateProfileChangedCancelsPendingNudge(t *testing.T) {
	repo := &stubProfileRepo{}
	service := NewGateService(repo, newMemFlagStore(), gateTestDelay, nil, nil)

	service.Evaluate(context.Background(), 42)

	// The wizard submission lands before the delay elapses.
	repo.profile = gateCompleteProfile()
	service.ProfileChanged(context.Background(), 42)

	time.Sleep(3 * gateTestDelay)
	if service.NudgeOpen(42) {
		t.Fatalf("nudge must not appear after profile completion")
	}
}

func TestGateDismissPermanentlySuppressesFutureSessions(t *testing.T) {
	store := newMemFlagStore()
	service := NewGateService(&stubProfileRepo{}, store, gateTestDelay, nil, nil)

	service.Evaluate(context.Background(), 42)
	waitFor(t, func() bool { return service.NudgeOpen(42) }, "nudge to open")

	if err := service.DismissNudgePermanently(context.Background(), 42); err != nil {
		t.Fatalf("DismissNudgePermanently: %v", err)
	}
	if !store.flags[gate.FlagNudgeDismissed] {
		t.Fatalf("expected persisted flag")
	}

	// A later session (fresh controller) stays quiet.
	service.EndSession(42)
	service.Evaluate(context.Background(), 42)
	time.Sleep(3 * gateTestDelay)
	if service.NudgeOpen(42) {
		t.Fatalf("nudge must stay suppressed after permanent dismissal")
	}
}

func TestGateCompletionClearsPersistedDismissal(t *testing.T) {
	store := newMemFlagStore()
	store.flags[gate.FlagNudgeDismissed] = true
	repo := &stubProfileRepo{profile: gateCompleteProfile()}
	service := NewGateService(repo, store, gateTestDelay, nil, nil)

	service.Evaluate(context.Background(), 42)
	if store.flags[gate.FlagNudgeDismissed] {
		t.Fatalf("expected flag cleared once profile is complete")
	}
}

func TestGateProfileChangedPushesRecomputedState(t *testing.T) {
	repo := &stubProfileRepo{profile: &models.Profile{UserID: 42}}

	var mu sync.Mutex
	type push struct {
		userID int64
		state  gate.State
	}
	var pushes []push
	notifyState := func(userID int64, state gate.State) {
		mu.Lock()
		pushes = append(pushes, push{userID: userID, state: state})
		mu.Unlock()
	}
	service := NewGateService(repo, newMemFlagStore(), gateTestDelay, nil, notifyState)

	service.ProfileChanged(context.Background(), 42)

	// The wizard submission lands; connected clients must hear complete.
	repo.profile = gateCompleteProfile()
	service.ProfileChanged(context.Background(), 42)

	mu.Lock()
	defer mu.Unlock()
	if len(pushes) != 2 {
		t.Fatalf("expected 2 state pushes, got %d", len(pushes))
	}
	if pushes[0].userID != 42 || pushes[0].state != gate.StateIncomplete {
		t.Fatalf("expected incomplete pushed first, got %+v", pushes[0])
	}
	if pushes[1].state != gate.StateComplete {
		t.Fatalf("expected complete pushed after submission, got %+v", pushes[1])
	}
}

func TestGateEndSessionCancelsPendingShow(t *testing.T) {
	service := NewGateService(&stubProfileRepo{}, newMemFlagStore(), gateTestDelay, nil, nil)

	service.Evaluate(context.Background(), 42)
	service.EndSession(42)

	time.Sleep(3 * gateTestDelay)
	if service.NudgeOpen(42) {
		t.Fatalf("nudge must not appear after sign-out")
	}
}
