// Package publish implements the video submission workflow: admission
// gate, rate limit, content classification, safety scoring, violation
// policy enforcement, and the final handoff to the archive sink.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonahtube/studio/internal/account"
	"github.com/jonahtube/studio/internal/metrics"
	"github.com/jonahtube/studio/internal/moderation"
	"github.com/jonahtube/studio/internal/policy"
	"github.com/jonahtube/studio/internal/ratelimit"
	"github.com/jonahtube/studio/internal/video"
)

// Sentinel rejection kinds. Handlers map these to response codes.
var (
	ErrAccountBlocked  = errors.New("publish: account blocked")
	ErrRateLimited     = errors.New("publish: rate limited")
	ErrContentRejected = errors.New("publish: content rejected")
	ErrSinkFailure     = errors.New("publish: sink unavailable")
)

// MinSafetyScore is the overall score below which otherwise-appropriate
// content is still rejected. No violation is recorded for these.
const MinSafetyScore = 60

const msgLowScore = "Content safety score too low (%d/100). Please make your content more positive and family-friendly."

// Rejection is a submission refusal with user-facing detail. It wraps
// one of the sentinel kinds so callers can branch with errors.Is.
type Rejection struct {
	Kind    error
	Message string
	Issues  []string
	Action  policy.Action
}

func (r *Rejection) Error() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Kind.Error()
}

func (r *Rejection) Unwrap() error { return r.Kind }

// Gate answers whether a user may publish and applies enforcement
// actions decided by the policy engine.
type Gate interface {
	Status(ctx context.Context, userID string) (account.Status, error)
	Ban(ctx context.Context, userID, message string) error
	Suspend(ctx context.Context, userID string, d time.Duration, message string) error
}

// HistoryStore persists per-user violation records.
type HistoryStore interface {
	All(ctx context.Context, userID string) (*policy.History, error)
	Append(ctx context.Context, userID string, rec policy.Record) error
}

// Sink receives approved video records. A sink error means the publish
// failed; nothing is retried.
type Sink interface {
	Publish(ctx context.Context, rec video.Record) error
}

// Limiter throttles submissions per user.
type Limiter interface {
	Allow(ctx context.Context, identifier string, rule ratelimit.Rule) (bool, error)
}

// Stats records per-user publish counters. Failures are logged, never
// surfaced to the submitter.
type Stats interface {
	RecordUpload(ctx context.Context, userID string) error
}

// Submission is one video publish request.
type Submission struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Visibility  string  `json:"visibility"`
	Channel     string  `json:"channel"`
	IsRecording bool    `json:"is_recording"`
	Duration    float64 `json:"duration,omitempty"`
}

// Receipt confirms a successful publish.
type Receipt struct {
	VideoID     string    `json:"video_id"`
	SafetyScore int       `json:"safety_score"`
	PublishedAt time.Time `json:"published_at"`
}

// Publisher runs submissions through the full moderation pipeline.
type Publisher struct {
	classifier *moderation.Classifier
	gate       Gate
	history    HistoryStore
	sink       Sink
	limiter    Limiter
	stats      Stats

	// now and score are swappable for tests.
	now   func() time.Time
	score func(title, description string) int
}

// NewPublisher wires a publisher from its collaborators.
func NewPublisher(c *moderation.Classifier, gate Gate, history HistoryStore, sink Sink, limiter Limiter, stats Stats) *Publisher {
	p := &Publisher{
		classifier: c,
		gate:       gate,
		history:    history,
		sink:       sink,
		limiter:    limiter,
		stats:      stats,
		now:        time.Now,
	}
	p.score = func(title, description string) int {
		return (c.SafetyScore(title) + c.SafetyScore(description)) / 2
	}
	return p
}

// Submit runs the publish workflow. The returned error is either a
// *Rejection (the submission was refused) or an infrastructure error.
//
// The admission gate runs before any classification: a banned or
// still-suspended user never gets content feedback. Appropriate content
// below the safety floor is rejected without recording a violation.
func (p *Publisher) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	start := p.now()

	st, err := p.gate.Status(ctx, sub.UserID)
	if err != nil {
		return Receipt{}, fmt.Errorf("publish: account status: %w", err)
	}
	if !st.Active() {
		metrics.PublishesTotal.WithLabelValues("rejected").Inc()
		return Receipt{}, &Rejection{Kind: ErrAccountBlocked, Message: st.Message}
	}

	allowed, _ := p.limiter.Allow(ctx, sub.UserID, ratelimit.RulePublish)
	if !allowed {
		metrics.PublishesTotal.WithLabelValues("rejected").Inc()
		return Receipt{}, &Rejection{Kind: ErrRateLimited, Message: "Too many submissions. Please try again later."}
	}

	titleVerdict := p.classifier.CheckContent(sub.Title, moderation.ContentTypeVideoTitle)
	descVerdict := p.classifier.CheckContent(sub.Description, moderation.ContentTypeVideoDescription)

	// Invalid input (empty fields) is a plain validation failure, not a
	// conduct violation.
	if titleVerdict.Severity == moderation.SeverityError || descVerdict.Severity == moderation.SeverityError {
		metrics.PublishesTotal.WithLabelValues("rejected").Inc()
		return Receipt{}, &Rejection{
			Kind:   ErrContentRejected,
			Issues: append(titleVerdict.Issues, descVerdict.Issues...),
		}
	}

	if titleVerdict.IsAppropriate && descVerdict.IsAppropriate {
		score := p.score(sub.Title, sub.Description)
		if score < MinSafetyScore {
			metrics.PublishesTotal.WithLabelValues("rejected").Inc()
			return Receipt{}, &Rejection{
				Kind:    ErrContentRejected,
				Message: fmt.Sprintf(msgLowScore, score),
			}
		}
		return p.deliver(ctx, sub, score, start)
	}

	rej, err := p.enforce(ctx, sub.UserID, titleVerdict, descVerdict)
	if err != nil {
		return Receipt{}, err
	}
	metrics.PublishesTotal.WithLabelValues("rejected").Inc()
	return Receipt{}, rej
}

// enforce records violations for inappropriate content and applies the
// policy decision to the account. History write errors propagate; a
// violation that is not durably recorded must fail the submission.
func (p *Publisher) enforce(ctx context.Context, userID string, verdicts ...moderation.Verdict) (*Rejection, error) {
	var violations []policy.Violation
	var issues []string
	for _, v := range verdicts {
		if v.IsAppropriate {
			continue
		}
		violations = append(violations, policy.Violation{Tier: tierFor(v.Severity)})
		issues = append(issues, v.Issues...)
	}

	history, err := p.history.All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("publish: load history: %w", err)
	}

	decision := policy.Evaluate(violations, history, p.now())

	rec := history.Records[len(history.Records)-1]
	if err := p.history.Append(ctx, userID, rec); err != nil {
		return nil, fmt.Errorf("publish: record violations: %w", err)
	}

	switch decision.Action {
	case policy.ActionPermanentBan:
		if err := p.gate.Ban(ctx, userID, decision.Message); err != nil {
			return nil, fmt.Errorf("publish: apply ban: %w", err)
		}
	case policy.ActionSuspension:
		if err := p.gate.Suspend(ctx, userID, decision.SuspendFor, decision.Message); err != nil {
			return nil, fmt.Errorf("publish: apply suspension: %w", err)
		}
	}
	if decision.Action != policy.ActionNone {
		metrics.PolicyActionsTotal.WithLabelValues(string(decision.Action)).Inc()
	}

	return &Rejection{
		Kind:    ErrContentRejected,
		Message: decision.Message,
		Issues:  issues,
		Action:  decision.Action,
	}, nil
}

// deliver hands the approved submission to the sink and bumps counters.
func (p *Publisher) deliver(ctx context.Context, sub Submission, score int, start time.Time) (Receipt, error) {
	rec := video.Record{
		VideoID:     uuid.NewString(),
		UserID:      sub.UserID,
		Title:       sub.Title,
		Description: sub.Description,
		Category:    sub.Category,
		Visibility:  sub.Visibility,
		Channel:     sub.Channel,
		IsRecording: sub.IsRecording,
		Duration:    sub.Duration,
	}

	if err := p.sink.Publish(ctx, rec); err != nil {
		metrics.PublishesTotal.WithLabelValues("failed").Inc()
		return Receipt{}, &Rejection{
			Kind:    ErrSinkFailure,
			Message: "Publishing failed. Please try again later.",
		}
	}

	if err := p.stats.RecordUpload(ctx, sub.UserID); err != nil {
		log.Printf("[publish] stats for %s: %v", sub.UserID, err)
	}

	metrics.PublishesTotal.WithLabelValues("published").Inc()
	metrics.PublishLatency.Observe(p.now().Sub(start).Seconds())

	return Receipt{
		VideoID:     rec.VideoID,
		SafetyScore: score,
		PublishedAt: p.now(),
	}, nil
}

// tierFor maps a verdict severity to a policy tier.
func tierFor(s moderation.Severity) policy.Tier {
	switch s {
	case moderation.SeverityHigh:
		return policy.TierSevere
	case moderation.SeverityMedium:
		return policy.TierModerate
	default:
		return policy.TierMild
	}
}
