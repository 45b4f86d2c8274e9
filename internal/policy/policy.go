// Package policy converts moderation failures into account-level decisions.
// It keeps a per-user violation history and escalates repeat offenders over a
// rolling 30-day window: warning first, then temporary suspension, then a
// permanent ban.
package policy

import "time"

// Tier classifies a single violation for escalation purposes.
type Tier string

const (
	TierSevere   Tier = "severe"
	TierModerate Tier = "moderate"
	TierMild     Tier = "mild"
)

// Action is the enforcement step a decision carries.
type Action string

const (
	ActionNone         Action = "none"
	ActionWarning      Action = "warning"
	ActionSuspension   Action = "suspension"
	ActionPermanentBan Action = "permanent_ban"
)

const (
	// Window is the rolling lookback over which tier counts accumulate.
	Window = 30 * 24 * time.Hour

	// SevereSuspension and ModerateSuspension are the suspension lengths
	// applied at the respective escalation steps.
	SevereSuspension   = 7 * 24 * time.Hour
	ModerateSuspension = 3 * 24 * time.Hour
)

// Escalation thresholds within the window.
const (
	severeBanAt       = 3
	severeSuspendAt   = 2
	moderateSuspendAt = 5
	moderateWarnAt    = 3
	mildWarnAt        = 10
)

// Violation is one moderation failure in a submission batch.
type Violation struct {
	Tier Tier `json:"tier"`
}

// Record tallies one submission's violations by tier.
type Record struct {
	At       time.Time `json:"at"`
	Severe   int       `json:"severe"`
	Moderate int       `json:"moderate"`
	Mild     int       `json:"mild"`
}

// History is a user's accumulated violation records. It is created empty on
// the first violation and only ever appended to; records are never expired,
// the window is applied at evaluation time.
type History struct {
	UserID  string   `json:"user_id"`
	Records []Record `json:"records"`
}

// Decision is the outcome of evaluating a violation batch.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Action     Action        `json:"action"`
	Message    string        `json:"message,omitempty"`
	SuspendFor time.Duration `json:"suspend_for,omitempty"`
}

// Enforcement messages shown to the user, one per escalation step.
const (
	msgPermanentBan       = "Your account has been permanently banned due to repeated severe violations of our community guidelines."
	msgSevereSuspension   = "Your account has been suspended for 7 days due to severe violations. This is your final warning."
	msgSevereWarning      = "This content violates our community guidelines. Please review our guidelines and try again."
	msgModerateSuspension = "Your account has been suspended for 3 days due to repeated violations."
	msgModerateWarning    = "Warning: This content may violate our guidelines. Please review and modify."
	msgMildWarning        = "Please keep your content positive and respectful."
)

// Evaluate appends the new violation batch to history and returns the
// enforcement decision based on tier totals over the trailing window.
//
// Precedence is fixed: a severe violation in the batch is judged before
// moderate, which is judged before mild, and within each tier the harshest
// matching rule wins. An empty batch allows the submission and leaves the
// history untouched. The caller persists the mutated history and applies the
// action to the account.
func Evaluate(violations []Violation, history *History, now time.Time) Decision {
	if len(violations) == 0 {
		return Decision{Allowed: true, Action: ActionNone}
	}

	rec := Record{At: now}
	for _, v := range violations {
		switch v.Tier {
		case TierSevere:
			rec.Severe++
		case TierModerate:
			rec.Moderate++
		default:
			rec.Mild++
		}
	}
	history.Records = append(history.Records, rec)

	var totalSevere, totalModerate, totalMild int
	for _, r := range history.Records {
		if now.Sub(r.At) < Window {
			totalSevere += r.Severe
			totalModerate += r.Moderate
			totalMild += r.Mild
		}
	}

	if rec.Severe > 0 {
		switch {
		case totalSevere >= severeBanAt:
			return Decision{Action: ActionPermanentBan, Message: msgPermanentBan}
		case totalSevere >= severeSuspendAt:
			return Decision{Action: ActionSuspension, Message: msgSevereSuspension, SuspendFor: SevereSuspension}
		default:
			return Decision{Action: ActionWarning, Message: msgSevereWarning}
		}
	}

	if rec.Moderate > 0 {
		switch {
		case totalModerate >= moderateSuspendAt:
			return Decision{Action: ActionSuspension, Message: msgModerateSuspension, SuspendFor: ModerateSuspension}
		case totalModerate >= moderateWarnAt:
			return Decision{Action: ActionWarning, Message: msgModerateWarning}
		}
	}

	if rec.Mild > 0 && totalMild >= mildWarnAt {
		return Decision{Action: ActionWarning, Message: msgMildWarning}
	}

	return Decision{Allowed: true, Action: ActionNone}
}
