package moderation

import "regexp"

// The rule tables below are static configuration data, compiled once at
// package init and shared by every Classifier. Matching logic lives in
// classifier.go; these tables only declare WHAT to match.

// blockedTerms are always blocked regardless of context, matched as
// case-insensitive whole words. Order matters: BlockedWords in a Verdict
// preserves table order.
var blockedTerms = []string{
	"damn", "hell", "stupid", "idiot", "moron", "dumb", "loser",
	"hate", "kill", "die", "murder", "violence", "hurt", "evil",
	"devil", "satan", "sex", "porn", "nude", "naked", "drug",
	"drugs", "alcohol", "drunk", "weed", "threat", "bully",
	"weapon", "gun", "knife", "bomb",
}

// spamPattern pairs a stable identifier with a detection function. The
// identifier is the pattern's regex source so verdicts stay testable when
// the table is reordered.
type spamPattern struct {
	id    string
	match func(string) bool
}

// rePattern builds a spamPattern straight from a regular expression.
func rePattern(expr string) spamPattern {
	re := regexp.MustCompile(expr)
	return spamPattern{id: expr, match: re.MatchString}
}

// charRunID identifies the repeated-character rule. The source regex uses a
// backreference, which RE2 does not support, so the rule is implemented as a
// linear scan (hasCharRun) but keeps the regex source as its identifier.
const charRunID = `(.)\1{4,}`

// suspiciousPatterns is the ordered pattern table: masked profanity, hostile
// phrases, contact solicitation, literal phone/email/URL, social platforms,
// scam phrases, and character flooding. Matching runs against the original
// (case-preserved) text; the (?i) flags handle case folding.
var suspiciousPatterns = []spamPattern{
	rePattern(`(?i)\b(go\s+to\s+hell)\b`),
	rePattern(`(?i)\b(shut\s+up)\b`),
	rePattern(`(?i)\b(f\*+k|f\*ck|f\*\*k)\b`),
	rePattern(`(?i)\b(s\*+t|sh\*t|s\*\*t)\b`),
	rePattern(`(?i)\b(b\*+ch|b\*tch)\b`),
	rePattern(`(?i)\b(a\*+hole|a\*\*hole)\b`),
	rePattern(`(?i)\b(d\*+n|d\*mn)\b`),
	rePattern(`(?i)\b(h\*+l|h\*ll)\b`),
	rePattern(`(?i)\b(cr\*p|cr\*\*)\b`),
	rePattern(`(?i)\b(i\s+hate\s+you)\b`),
	rePattern(`(?i)\b(you\s+suck)\b`),
	rePattern(`(?i)\b(go\s+die)\b`),
	rePattern(`(?i)\b(kill\s+yourself)\b`),
	rePattern(`(?i)\b(nobody\s+likes\s+you)\b`),
	rePattern(`(?i)\b(you\s+are\s+stupid)\b`),
	rePattern(`(?i)\b(you\s+are\s+dumb)\b`),
	rePattern(`(?i)\b(loser)\b`),
	rePattern(`(?i)\b(contact\s+me\s+at)\b`),
	rePattern(`(?i)\b(email\s+me)\b`),
	rePattern(`(?i)\b(call\s+me)\b`),
	rePattern(`(?i)\b(meet\s+me)\b`),
	rePattern(`(?i)\b(come\s+over)\b`),
	rePattern(`(?i)\b(send\s+me)\b`),
	rePattern(`(\d{3}[-.\s]?\d{3}[-.\s]?\d{4})`),
	rePattern(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	rePattern(`(https?://[^\s]+)`),
	rePattern(`(?i)\b(discord|snapchat|instagram|tiktok|facebook|whatsapp|telegram)\b`),
	rePattern(`(?i)\b(free\s+money|easy\s+money|get\s+rich)\b`),
	rePattern(`(?i)\b(click\s+here|visit\s+now|limited\s+time)\b`),
	{id: charRunID, match: hasCharRun},
}

// hasCharRun returns true if text contains 5 or more consecutive identical
// characters. Implemented as a scan because RE2 has no backreferences.
func hasCharRun(text string) bool {
	const threshold = 5

	count := 1
	prev := rune(-1)
	for _, r := range text {
		if r == prev {
			count++
			if count >= threshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}
	return false
}

// positiveTerms earn a safety-score bonus. Matched as substrings of the
// lowercased content.
var positiveTerms = []string{
	"love", "peace", "joy", "hope", "faith", "blessed", "grateful",
	"thankful", "amazing", "awesome", "wonderful", "beautiful",
	"inspiring", "uplifting", "encouraging", "positive", "good",
	"great", "excellent", "fantastic", "incredible", "outstanding",
}

// cleanReplacement maps a blocked term to a family-friendly substitute,
// applied whole-word and case-insensitively by SuggestClean.
type cleanReplacement struct {
	re   *regexp.Regexp
	with string
}

func replacement(word, with string) cleanReplacement {
	return cleanReplacement{
		re:   regexp.MustCompile(`(?i)\b` + word + `\b`),
		with: with,
	}
}

var cleanReplacements = []cleanReplacement{
	replacement("stupid", "silly"),
	replacement("idiot", "person"),
	replacement("moron", "person"),
	replacement("dumb", "silly"),
	replacement("hate", "dislike"),
	replacement("kill", "stop"),
	replacement("die", "end"),
	replacement("hell", "heck"),
	replacement("damn", "darn"),
}

// lengthLimit bounds the rune count of a field. Both bounds are inclusive.
type lengthLimit struct {
	min, max int
}

// lengthLimits maps every valid ContentType to its bounds. The mapping is
// exhaustive on purpose: an unknown tag is a validation failure, not a
// silent fall-through to the general bounds.
var lengthLimits = map[ContentType]lengthLimit{
	ContentTypeVideoTitle:       {min: 3, max: 100},
	ContentTypeVideoDescription: {min: 10, max: 2000},
	ContentTypeChannelName:      {min: 3, max: 30},
	ContentTypeChannelHandle:    {min: 3, max: 20},
	ContentTypeSearch:           {min: 1, max: 100},
	ContentTypeGeneral:          {min: 1, max: 500},
}

// blockedTermPatterns holds one compiled whole-word matcher per blocked term.
var blockedTermPatterns = buildTermPatterns(blockedTerms)

func buildTermPatterns(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`\b` + term + `\b`)
	}
	return patterns
}
