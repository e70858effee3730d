package gate

import (
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/health"
	"github.com/code-jungle/fitlife-ai-glow-sub001/internal/models"
)

// State classifies the current session for routing purposes.
type State string

const (
	StateAuthenticating State = "authenticating"
	StateAnonymous      State = "anonymous"
	StateComplete       State = "complete"
	StateIncomplete     State = "incomplete"
)

// Verdict is a route guard's answer for one route entry.
type Verdict string

const (
	VerdictWait     Verdict = "wait"
	VerdictAllow    Verdict = "allow"
	VerdictRedirect Verdict = "redirect"
)

// Redirect targets. The login redirect belongs to the auth guard, not to
// this gate; it is listed here only so callers share one constant set.
const (
	TargetProfileSetup = "profile-setup"
	TargetDashboard    = "dashboard"
)

// Decision pairs a verdict with its redirect target (empty unless the
// verdict is a redirect).
type Decision struct {
	Verdict Verdict `json:"verdict"`
	Target  string  `json:"target,omitempty"`
}

// Inputs is everything Evaluate looks at. A fetch failure is represented
// as a nil Profile with Loading flags false, which lands in Incomplete:
// the gate always fails toward prompting completion, never toward access.
type Inputs struct {
	HasIdentity    bool
	AuthLoading    bool
	Profile        *models.Profile
	ProfileLoading bool
}

// Evaluate is a pure reducer from session inputs to a gate state. It is
// recomputed in full on every input change; nothing is cached.
func Evaluate(in Inputs) State {
	if in.AuthLoading {
		return StateAuthenticating
	}
	if !in.HasIdentity {
		return StateAnonymous
	}
	if in.ProfileLoading {
		return StateAuthenticating
	}
	if health.IsProfileComplete(in.Profile) {
		return StateComplete
	}
	return StateIncomplete
}

// GuardProtected decides entry into routes that assume a completed
// profile. Anonymous sessions wait here: keeping them out is the auth
// guard's job, and issuing a second redirect would race it.
func GuardProtected(state State) Decision {
	switch state {
	case StateAuthenticating, StateAnonymous:
		return Decision{Verdict: VerdictWait}
	case StateIncomplete:
		return Decision{Verdict: VerdictRedirect, Target: TargetProfileSetup}
	default:
		return Decision{Verdict: VerdictAllow}
	}
}

// GuardPublic decides entry into public-only routes (landing, login,
// register): signed-in users are pushed to wherever they belong.
func GuardPublic(state State) Decision {
	switch state {
	case StateAuthenticating:
		return Decision{Verdict: VerdictWait}
	case StateComplete:
		return Decision{Verdict: VerdictRedirect, Target: TargetDashboard}
	case StateIncomplete:
		return Decision{Verdict: VerdictRedirect, Target: TargetProfileSetup}
	default:
		return Decision{Verdict: VerdictAllow}
	}
}
