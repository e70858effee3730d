package gate

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultNudgeDelay is how long eligibility must hold before the nudge
// modal becomes visible. The delay exists so the modal never flashes
// during initial layout; it is cancellable the whole way.
const DefaultNudgeDelay = 2 * time.Second

// FlagStore persists the "permanently dismissed" flag across sessions.
// Implementations must treat a read failure as flag-absent.
type FlagStore interface {
	Get(ctx context.Context, userID int64, key string) (bool, error)
	Set(ctx context.Context, userID int64, key string) error
	Clear(ctx context.Context, userID int64, key string) error
}

// FlagNudgeDismissed is the only key this package writes to the store.
const FlagNudgeDismissed = "profile_nudge_dismissed"

// NudgeEvent is emitted whenever the modal opens or closes, so transports
// (websocket push, polling endpoints) can mirror controller state.
type NudgeEvent struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"` // "open" or "close"
}

// Nudge drives the dismissible profile-completion modal for one session.
//
// The controller owns all its state explicitly: the shown-this-session
// flag lives here, the permanent flag lives in the injected store, and
// there is never more than one pending deferred show. Update must be
// called with fresh Inputs on every identity or profile change.
type Nudge struct {
	userID int64
	store  FlagStore
	delay  time.Duration
	notify func(NudgeEvent)

	mu    sync.Mutex
	open  bool
	shown bool
	// dismissed mirrors the persisted flag once this session sets it, so
	// an Update racing DismissPermanently cannot schedule a show against
	// a stale store read.
	dismissed bool
	pending   *time.Timer
	pendSeq   uint64
}

// NewNudge builds a controller for one user session. notify may be nil.
// A non-positive delay falls back to DefaultNudgeDelay.
func NewNudge(userID int64, store FlagStore, delay time.Duration, notify func(NudgeEvent)) *Nudge {
	if delay <= 0 {
		delay = DefaultNudgeDelay
	}
	return &Nudge{
		userID: userID,
		store:  store,
		delay:  delay,
		notify: notify,
	}
}

// Update recomputes eligibility from the latest inputs.
//
// Eligible means: identity present, state Incomplete, not yet shown this
// session, and no persisted dismissal. Becoming eligible schedules the
// deferred show; losing eligibility cancels any pending show. Reaching
// Complete while the persisted flag is set clears the flag (a future
// regression to incomplete should nudge again) and force-closes the
// modal.
func (n *Nudge) Update(ctx context.Context, in Inputs) {
	state := Evaluate(in)

	// The flag read happens before the lock: a slow store must never
	// stall timer fire, Close, or IsOpen.
	var dismissed bool
	if state == StateComplete || (in.HasIdentity && state == StateIncomplete) {
		var err error
		dismissed, err = n.storeGet(ctx)
		if err != nil {
			// Unreadable flag counts as absent; the nudge is harmless,
			// silently skipping it is not.
			dismissed = false
		}
	}

	n.mu.Lock()

	if state == StateComplete {
		n.cancelPendingLocked()
		n.dismissed = false
		if n.open {
			n.open = false
			n.emitLocked("close")
		}
		n.mu.Unlock()
		if dismissed {
			if err := n.store.Clear(ctx, n.userID, FlagNudgeDismissed); err != nil {
				log.Printf("nudge: clear dismissed flag for user %d: %v", n.userID, err)
			}
		}
		return
	}
	defer n.mu.Unlock()

	eligible := in.HasIdentity && state == StateIncomplete &&
		!n.shown && !dismissed && !n.dismissed
	if !eligible {
		n.cancelPendingLocked()
		return
	}
	if n.pending != nil {
		// One pending show at most; the earlier schedule stands.
		return
	}

	seq := n.pendSeq
	n.pending = time.AfterFunc(n.delay, func() {
		n.fire(seq)
	})
}

// fire runs when the deferred show elapses. The sequence check makes a
// cancelled timer that already left AfterFunc's queue a no-op.
func (n *Nudge) fire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.pendSeq || n.pending == nil {
		return
	}
	n.pending = nil
	n.pendSeq++
	n.shown = true
	n.open = true
	n.emitLocked("open")
}

// Close hides the modal for now; it may come back in a future session.
func (n *Nudge) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelPendingLocked()
	if n.open {
		n.open = false
		n.emitLocked("close")
	}
}

// DismissPermanently hides the modal and persists the dismissal so no
// future session auto-shows it until the flag is cleared.
func (n *Nudge) DismissPermanently(ctx context.Context) error {
	n.mu.Lock()
	n.cancelPendingLocked()
	n.dismissed = true
	wasOpen := n.open
	n.open = false
	if wasOpen {
		n.emitLocked("close")
	}
	n.mu.Unlock()

	if n.store == nil {
		return nil
	}
	return n.store.Set(ctx, n.userID, FlagNudgeDismissed)
}

// Stop cancels any pending show. Call on sign-out or session teardown so
// a stale timer cannot pop a modal on an unrelated screen.
func (n *Nudge) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelPendingLocked()
}

// IsOpen reports current modal visibility.
func (n *Nudge) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}

// ShownThisSession reports whether the modal already auto-showed once.
func (n *Nudge) ShownThisSession() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shown
}

func (n *Nudge) cancelPendingLocked() {
	if n.pending == nil {
		return
	}
	n.pending.Stop()
	n.pending = nil
	n.pendSeq++
}

func (n *Nudge) storeGet(ctx context.Context) (bool, error) {
	if n.store == nil {
		return false, nil
	}
	return n.store.Get(ctx, n.userID, FlagNudgeDismissed)
}

func (n *Nudge) emitLocked(kind string) {
	if n.notify == nil {
		return
	}
	n.notify(NudgeEvent{UserID: n.userID, Kind: kind})
}
