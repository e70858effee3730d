package services

import (
	"context"
	"sync"
	"time"

	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/gate"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

// GateService owns one nudge controller per signed-in user and answers
// route-guard queries. Every query and every profile-change notification
// recomputes the gate state in full from a fresh profile read; nothing is
// cached between calls.
type GateService struct {
	profileRepo profileReader
	flagStore   gate.FlagStore
	nudgeDelay  time.Duration
	notify      func(gate.NudgeEvent)
	notifyState func(userID int64, state gate.State)

	mu     sync.Mutex
	nudges map[int64]*gate.Nudge
}

// NewGateService wires the gate. notify receives nudge open/close events
// and notifyState the recomputed gate state after each profile write;
// either may be nil.
func NewGateService(
	profileRepo profileReader,
	flagStore gate.FlagStore,
	nudgeDelay time.Duration,
	notify func(gate.NudgeEvent),
	notifyState func(userID int64, state gate.State),
) *GateService {
	return &GateService{
		profileRepo: profileRepo,
		flagStore:   flagStore,
		nudgeDelay:  nudgeDelay,
		notify:      notify,
		notifyState: notifyState,
		nudges:      make(map[int64]*gate.Nudge),
	}
}

// GateStatus bundles everything a routing layer needs for one evaluation.
type GateStatus struct {
	State          gate.State    `json:"state"`
	Protected      gate.Decision `json:"protected"`
	Public         gate.Decision `json:"public"`
	NudgeOpen      bool          `json:"nudge_open"`
	ProfileMissing bool          `json:"profile_missing"`
}

// Evaluate recomputes the session's gate state. A userID of zero means no
// identity. Profile fetch failures are swallowed into the incomplete
// state: the gate fails toward prompting completion, never toward access.
func (s *GateService) Evaluate(ctx context.Context, userID int64) GateStatus {
	in := s.inputs(ctx, userID)
	state := gate.Evaluate(in)

	status := GateStatus{
		State:          state,
		Protected:      gate.GuardProtected(state),
		Public:         gate.GuardPublic(state),
		ProfileMissing: in.Profile == nil,
	}

	if userID > 0 {
		nudge := s.nudgeFor(userID)
		nudge.Update(ctx, in)
		status.NudgeOpen = nudge.IsOpen()
	}
	return status
}

// ProfileChanged re-drives the user's nudge controller after a write to
// the canonical profile (wizard submission, partial update) and pushes
// the recomputed state to connected clients.
func (s *GateService) ProfileChanged(ctx context.Context, userID int64) {
	if userID <= 0 {
		return
	}
	in := s.inputs(ctx, userID)
	s.nudgeFor(userID).Update(ctx, in)
	if s.notifyState != nil {
		s.notifyState(userID, gate.Evaluate(in))
	}
}

// NudgeOpen reports modal visibility without re-evaluating eligibility.
func (s *GateService) NudgeOpen(userID int64) bool {
	s.mu.Lock()
	nudge, ok := s.nudges[userID]
	s.mu.Unlock()
	return ok && nudge.IsOpen()
}

// CloseNudge dismisses the modal for this session only.
func (s *GateService) CloseNudge(userID int64) {
	s.mu.Lock()
	nudge, ok := s.nudges[userID]
	s.mu.Unlock()
	if ok {
		nudge.Close()
	}
}

// DismissNudgePermanently persists the dismissal flag for the user.
func (s *GateService) DismissNudgePermanently(ctx context.Context, userID int64) error {
	return s.nudgeFor(userID).DismissPermanently(ctx)
}

// EndSession tears the user's controller down, cancelling any pending
// deferred show so no stale modal pops after sign-out.
func (s *GateService) EndSession(userID int64) {
	s.mu.Lock()
	nudge, ok := s.nudges[userID]
	delete(s.nudges, userID)
	s.mu.Unlock()
	if ok {
		nudge.Stop()
	}
}

func (s *GateService) inputs(ctx context.Context, userID int64) gate.Inputs {
	in := gate.Inputs{HasIdentity: userID > 0}
	if !in.HasIdentity {
		return in
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		// Fetch failure and absence look identical to the gate.
		return in
	}
	in.Profile = profile
	return in
}

func (s *GateService) nudgeFor(userID int64) *gate.Nudge {
	s.mu.Lock()
	defer s.mu.Unlock()
	nudge, ok := s.nudges[userID]
	if !ok {
		nudge = gate.NewNudge(userID, s.flagStore, s.nudgeDelay, s.notify)
		s.nudges[userID] = nudge
	}
	return nudge
}
