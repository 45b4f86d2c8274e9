package moderation

import (
	"context"
	"strings"
	"testing"

	"github.com/jonahtube/studio/internal/store"
)

func TestAuditLog_RecordsEveryCheck(t *testing.T) {
	audit := NewAuditLog(nil)
	c := NewClassifierWithAudit(audit)

	c.CheckContent("a perfectly fine title", ContentTypeVideoTitle)
	c.CheckContent("this is stupid", ContentTypeVideoTitle)

	stats := audit.Stats()
	if stats.TotalChecks != 2 {
		t.Fatalf("TotalChecks = %d, want 2", stats.TotalChecks)
	}
	if stats.Approved != 1 || stats.Blocked != 1 {
		t.Errorf("Approved/Blocked = %d/%d, want 1/1", stats.Approved, stats.Blocked)
	}
	if stats.MostCommonIssues["Content contains inappropriate language"] != 1 {
		t.Errorf("MostCommonIssues = %v, want language issue counted once", stats.MostCommonIssues)
	}
}

func TestAuditLog_EmptyInputNotLogged(t *testing.T) {
	audit := NewAuditLog(nil)
	c := NewClassifierWithAudit(audit)

	c.CheckContent("", ContentTypeVideoTitle)

	if got := audit.Stats().TotalChecks; got != 0 {
		t.Errorf("TotalChecks = %d, want 0 for empty input", got)
	}
}

func TestAuditLog_TruncatesContent(t *testing.T) {
	audit := NewAuditLog(nil)
	c := NewClassifierWithAudit(audit)

	long := strings.Repeat("ab", 150) // 300 runes
	c.CheckContent(long, ContentTypeGeneral)

	entries := audit.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("Recent(1) returned %d entries, want 1", len(entries))
	}
	if got := len([]rune(entries[0].Content)); got != logSnippetRunes {
		t.Errorf("entry content length = %d runes, want %d", got, logSnippetRunes)
	}
}

func TestAuditLog_EvictsOldestBeyondCapacity(t *testing.T) {
	audit := NewAuditLog(nil)
	c := NewClassifierWithAudit(audit)

	for i := 0; i < LogCapacity+20; i++ {
		c.CheckContent("a harmless sentence to classify", ContentTypeGeneral)
	}

	stats := audit.Stats()
	if stats.TotalChecks != LogCapacity {
		t.Errorf("TotalChecks = %d, want capped at %d", stats.TotalChecks, LogCapacity)
	}
	if len(stats.RecentActivity) != 10 {
		t.Errorf("RecentActivity has %d entries, want 10", len(stats.RecentActivity))
	}
}

func TestAuditLog_PersistsThroughStore(t *testing.T) {
	docs := store.NewMemStore()
	audit := NewAuditLog(docs)
	c := NewClassifierWithAudit(audit)

	c.CheckContent("a harmless sentence to classify", ContentTypeGeneral)

	var persisted []AuditEntry
	ok, err := docs.Get(context.Background(), "moderation:log", &persisted)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted audit log")
	}
	if len(persisted) != 1 {
		t.Fatalf("persisted %d entries, want 1", len(persisted))
	}
	if !persisted[0].IsAppropriate {
		t.Error("persisted entry should be appropriate")
	}
}

func TestAuditLog_Recent_Order(t *testing.T) {
	audit := NewAuditLog(nil)

	audit.Record("first", ContentTypeGeneral, Verdict{IsAppropriate: true, Severity: SeverityNone})
	audit.Record("second", ContentTypeGeneral, Verdict{IsAppropriate: true, Severity: SeverityNone})
	audit.Record("third", ContentTypeGeneral, Verdict{IsAppropriate: true, Severity: SeverityNone})

	got := audit.Recent(2)
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(got))
	}
	if got[0].Content != "second" || got[1].Content != "third" {
		t.Errorf("Recent(2) = [%s, %s], want [second, third]", got[0].Content, got[1].Content)
	}
}
