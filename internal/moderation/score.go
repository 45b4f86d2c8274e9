package moderation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	exclaimRuns  = regexp.MustCompile(`[!?]{3,}`)
	ellipsisRuns = regexp.MustCompile(`\.{3,}`)
)

// SafetyScore rates content from 0 (unsafe) to 100 (safe). Blocked content
// gets a severity-banded score: high 0, medium 30, low 60. Otherwise the
// score starts at 100, loses 10 per detected issue, and earns back up to 20
// for positive wording.
func (c *Classifier) SafetyScore(content string) int {
	verdict := c.CheckContent(content, ContentTypeGeneral)

	if !verdict.IsAppropriate {
		switch verdict.Severity {
		case SeverityHigh:
			return 0
		case SeverityMedium:
			return 30
		case SeverityLow:
			return 60
		}
	}

	score := 100 - len(verdict.Issues)*10

	lowered := strings.ToLower(content)
	hits := 0
	for _, term := range c.positive {
		if strings.Contains(lowered, term) {
			hits++
		}
	}
	bonus := hits * 5
	if bonus > 20 {
		bonus = 20
	}
	score += bonus

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// FamilyFriendly reports whether content is appropriate and below high
// severity.
func (c *Classifier) FamilyFriendly(content string) bool {
	verdict := c.CheckContent(content, ContentTypeGeneral)
	return verdict.IsAppropriate && verdict.Severity != SeverityHigh
}

// SuggestClean rewrites content with family-friendly substitutions, collapses
// runs of punctuation, and de-shouts residual all-caps text. Best effort: the
// result is not guaranteed to pass CheckContent.
func (c *Classifier) SuggestClean(content string) string {
	clean := content

	for _, r := range cleanReplacements {
		clean = r.re.ReplaceAllString(clean, r.with)
	}

	clean = exclaimRuns.ReplaceAllString(clean, "!")
	clean = ellipsisRuns.ReplaceAllString(clean, "...")

	if hasExcessiveCaps(clean) {
		clean = titleCaseWords(strings.ToLower(clean))
	}

	return strings.TrimSpace(clean)
}

// titleCaseWords uppercases the first rune of each space-separated word.
func titleCaseWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
