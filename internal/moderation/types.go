package moderation

// CheckRequest is published to moderation.check when a text field needs
// async content review.
type CheckRequest struct {
	SubmissionID string      `json:"submission_id"`
	Content      string      `json:"content"`
	ContentType  ContentType `json:"content_type"`
	Ts           int64       `json:"ts"`
}

// CheckResult is published back to moderation.result.<submission_id> with
// the review outcome.
type CheckResult struct {
	SubmissionID string      `json:"submission_id"`
	ContentType  ContentType `json:"content_type"`
	Verdict      Verdict     `json:"verdict"`
	SafetyScore  int         `json:"safety_score"`
}
