package moderation

import (
	"strings"
	"testing"
)

func TestSafetyScore_Range(t *testing.T) {
	c := NewClassifier()

	inputs := []string{
		"You are stupid and I hate you",
		"Amazing and uplifting story of hope",
		"THIS IS ALL CAPS SHOUTING TEXT",
		"free money click here",
		"a quiet afternoon of reading",
	}
	for _, input := range inputs {
		score := c.SafetyScore(input)
		if score < 0 || score > 100 {
			t.Errorf("SafetyScore(%q) = %d, out of [0,100]", input, score)
		}
	}
}

func TestSafetyScore_SeverityBands(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"blocked word scores zero", "this is stupid", 0},
		{"pattern only scores thirty", "email me at once", 30},
		{"clean scores full", "a quiet afternoon of reading", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SafetyScore(tt.input); got != tt.want {
				t.Errorf("SafetyScore(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafetyScore_PositiveBonusClamped(t *testing.T) {
	c := NewClassifier()

	// Clean content with many positive words: bonus is capped at 20 and the
	// final score clamps at 100.
	input := "Amazing and uplifting story of hope"
	if got := c.SafetyScore(input); got != 100 {
		t.Errorf("SafetyScore(%q) = %d, want 100", input, got)
	}
}

func TestSafetyScore_CapsIssueDeducts(t *testing.T) {
	c := NewClassifier()

	// Caps-only content stays appropriate, so the score is computed:
	// 100 - 10 for the caps issue, no positive words.
	input := "ALL CAPS SHOUTING BUT HARMLESS"
	if got := c.SafetyScore(input); got != 90 {
		t.Errorf("SafetyScore(%q) = %d, want 90", input, got)
	}
}

func TestFamilyFriendly(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		input string
		want  bool
	}{
		{"a lovely day at the beach", true},
		{"this is stupid", false},
		{"email me now", false},
	}
	for _, tt := range tests {
		if got := c.FamilyFriendly(tt.input); got != tt.want {
			t.Errorf("FamilyFriendly(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSuggestClean_Substitutions(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single word", "that was stupid", "that was silly"},
		{"case insensitive", "I HATE this", "I dislike this"},
		{"multiple words", "stupid and dumb", "silly and silly"},
		{"whole word only", "diesel engines", "diesel engines"},
		{"punctuation runs", "wow!!! really????", "wow! really!"},
		{"dot runs", "well.....", "well..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.SuggestClean(tt.input); got != tt.want {
				t.Errorf("SuggestClean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSuggestClean_Idempotent(t *testing.T) {
	c := NewClassifier()

	inputs := []string{
		"that was stupid and I hate it",
		"kill the lights and die down",
		"what the hell, damn",
	}
	for _, input := range inputs {
		once := c.SuggestClean(input)
		twice := c.SuggestClean(once)
		if once != twice {
			t.Errorf("SuggestClean not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestSuggestClean_DeShouts(t *testing.T) {
	c := NewClassifier()

	got := c.SuggestClean("STOP SHOUTING AT EVERYONE")
	if got != "Stop Shouting At Everyone" {
		t.Errorf("SuggestClean de-shout = %q, want %q", got, "Stop Shouting At Everyone")
	}
	if strings.ToUpper(got) == got {
		t.Error("expected caps to be normalized")
	}
}
