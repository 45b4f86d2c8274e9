package moderation

// Severity classifies how serious the issues found in a piece of content are.
// Severity is monotonic within a single check: once raised it is never
// lowered by a later rule.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"

	// SeverityError marks verdicts produced for invalid input (empty content,
	// unknown content type) rather than for content that failed a rule.
	SeverityError Severity = "error"
)

// severityRank orders the content severities for monotonic escalation.
// SeverityError is outside the ladder; it only appears on fail-closed
// verdicts that never reach the escalation path.
var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// atLeast returns the higher of the two severities.
func (s Severity) atLeast(min Severity) Severity {
	if severityRank[s] < severityRank[min] {
		return min
	}
	return s
}

// ContentType tags a text field so the right length bounds apply.
type ContentType string

const (
	ContentTypeVideoTitle       ContentType = "video-title"
	ContentTypeVideoDescription ContentType = "video-description"
	ContentTypeChannelName      ContentType = "channel-name"
	ContentTypeChannelHandle    ContentType = "channel-handle"
	ContentTypeSearch           ContentType = "search"
	ContentTypeGeneral          ContentType = "general"
)

// Verdict is the structured outcome of classifying one text field.
type Verdict struct {
	// IsAppropriate is true iff no blocking issue was found. Blocked words,
	// suspicious patterns and length violations block; excessive caps alone
	// does not.
	IsAppropriate bool `json:"is_appropriate"`

	// Issues lists human-readable problem descriptions in detection order.
	Issues []string `json:"issues"`

	// Severity is the highest severity among the detected issues.
	Severity Severity `json:"severity"`

	// BlockedWords holds the literal blocked terms found, in table order.
	BlockedWords []string `json:"blocked_words,omitempty"`

	// SuspiciousPatterns holds the identifiers of triggered patterns, in
	// table order. The identifier is the pattern's own source text.
	SuspiciousPatterns []string `json:"suspicious_patterns,omitempty"`

	// Suggestions offers ways to fix the issues, in detection order.
	Suggestions []string `json:"suggestions,omitempty"`
}
