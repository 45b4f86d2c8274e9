// Package moderation provides rule-based content classification for
// user-submitted text. It screens titles, descriptions and other fields
// against blocked-word lists, suspicious patterns, caps-ratio heuristics and
// per-field length bounds before anything is published.
package moderation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Classifier scores text against the static rule tables. It is stateless
// apart from its audit log and safe for concurrent use.
type Classifier struct {
	terms        []string
	termPatterns []*regexpMatcher
	patterns     []spamPattern
	positive     []string
	audit        *AuditLog
}

// regexpMatcher pairs a blocked term with its compiled whole-word matcher.
type regexpMatcher struct {
	term  string
	match func(string) bool
}

// NewClassifier creates a classifier over the default rule tables with an
// in-memory audit log.
func NewClassifier() *Classifier {
	return NewClassifierWithAudit(NewAuditLog(nil))
}

// NewClassifierWithAudit creates a classifier that records every check into
// the given audit log. A nil log disables auditing.
func NewClassifierWithAudit(audit *AuditLog) *Classifier {
	matchers := make([]*regexpMatcher, len(blockedTerms))
	for i, term := range blockedTerms {
		matchers[i] = &regexpMatcher{term: term, match: blockedTermPatterns[i].MatchString}
	}
	return &Classifier{
		terms:        blockedTerms,
		termPatterns: matchers,
		patterns:     suspiciousPatterns,
		positive:     positiveTerms,
		audit:        audit,
	}
}

// CheckContent classifies one text field and returns a structured verdict.
// It never returns an error: invalid input produces a fail-closed verdict
// with SeverityError. Check order is fixed (blocked words, patterns, caps,
// length) because Issues preserves detection order; Severity is the maximum
// over all checks.
func (c *Classifier) CheckContent(content string, contentType ContentType) Verdict {
	if content == "" {
		return Verdict{
			IsAppropriate: false,
			Issues:        []string{"Content cannot be empty"},
			Severity:      SeverityError,
			Suggestions:   []string{"Please provide valid content"},
		}
	}

	limit, ok := lengthLimits[contentType]
	if !ok {
		return Verdict{
			IsAppropriate: false,
			Issues:        []string{fmt.Sprintf("Unknown content type %q", string(contentType))},
			Severity:      SeverityError,
			Suggestions:   []string{"Please use a supported content type"},
		}
	}

	verdict := Verdict{
		IsAppropriate: true,
		Issues:        []string{},
		Severity:      SeverityNone,
		Suggestions:   []string{},
	}

	// Word-list matching runs on the lowercased text; patterns and the caps
	// check operate on the original casing.
	lowered := strings.ToLower(strings.TrimSpace(content))

	if found := c.findBlockedTerms(lowered); len(found) > 0 {
		verdict.IsAppropriate = false
		verdict.Issues = append(verdict.Issues, "Content contains inappropriate language")
		verdict.Severity = verdict.Severity.atLeast(SeverityHigh)
		verdict.BlockedWords = found
		verdict.Suggestions = append(verdict.Suggestions, "Please use family-friendly language")
	}

	if found := c.findSuspiciousPatterns(content); len(found) > 0 {
		verdict.IsAppropriate = false
		verdict.Issues = append(verdict.Issues, "Content contains inappropriate patterns")
		verdict.Severity = verdict.Severity.atLeast(SeverityMedium)
		verdict.SuspiciousPatterns = found
		verdict.Suggestions = append(verdict.Suggestions, "Please avoid inappropriate expressions")
	}

	if hasExcessiveCaps(content) {
		verdict.Issues = append(verdict.Issues, "Excessive use of capital letters")
		verdict.Severity = verdict.Severity.atLeast(SeverityLow)
		verdict.Suggestions = append(verdict.Suggestions, "Please avoid writing in ALL CAPS")
	}

	if issue, suggestion, valid := checkLength(content, limit); !valid {
		verdict.IsAppropriate = false
		verdict.Issues = append(verdict.Issues, issue)
		verdict.Severity = verdict.Severity.atLeast(SeverityMedium)
		verdict.Suggestions = append(verdict.Suggestions, suggestion)
	}

	if c.audit != nil {
		c.audit.Record(content, contentType, verdict)
	}

	return verdict
}

// findBlockedTerms returns every blocked term that occurs as a whole word in
// the (already lowercased) content, in table order.
func (c *Classifier) findBlockedTerms(lowered string) []string {
	var found []string
	for _, m := range c.termPatterns {
		if m.match(lowered) {
			found = append(found, m.term)
		}
	}
	return found
}

// findSuspiciousPatterns returns the identifiers of every triggered pattern,
// in table order.
func (c *Classifier) findSuspiciousPatterns(content string) []string {
	var found []string
	for _, p := range c.patterns {
		if p.match(content) {
			found = append(found, p.id)
		}
	}
	return found
}

// hasExcessiveCaps reports whether more than 60% of the content is ASCII
// uppercase. Content shorter than 10 runes is exempt.
func hasExcessiveCaps(content string) bool {
	total := utf8.RuneCountInString(content)
	if total < 10 {
		return false
	}
	caps := 0
	for _, r := range content {
		if r >= 'A' && r <= 'Z' {
			caps++
		}
	}
	return float64(caps)/float64(total) > 0.6
}

// checkLength validates the rune count against the limit. Content of exactly
// min or max runes passes.
func checkLength(content string, limit lengthLimit) (issue, suggestion string, valid bool) {
	n := utf8.RuneCountInString(content)
	if n < limit.min {
		return fmt.Sprintf("Content is too short (minimum %d characters)", limit.min),
			fmt.Sprintf("Please provide at least %d characters", limit.min), false
	}
	if n > limit.max {
		return fmt.Sprintf("Content is too long (maximum %d characters)", limit.max),
			fmt.Sprintf("Please keep content under %d characters", limit.max), false
	}
	return "", "", true
}
