package moderation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonahtube/studio/internal/store"
)

const (
	// LogCapacity bounds the audit ring; the oldest entry is evicted first.
	LogCapacity = 100

	// logSnippetRunes is how much of the checked content an entry retains.
	logSnippetRunes = 100

	// logStoreKey is where the log is persisted between sessions.
	logStoreKey = "moderation:log"
)

// AuditEntry records one classification attempt.
type AuditEntry struct {
	Timestamp     time.Time   `json:"timestamp"`
	Content       string      `json:"content"` // first 100 runes only
	ContentType   ContentType `json:"content_type"`
	IsAppropriate bool        `json:"is_appropriate"`
	Severity      Severity    `json:"severity"`
	Issues        []string    `json:"issues"`
}

// AuditLog keeps the last LogCapacity classification attempts in a ring
// buffer and mirrors them to a document store after every append. The mirror
// is best effort: a store failure is logged and swallowed so it can never
// fail a classification.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	pos     int
	count   int
	docs    store.Store // nil disables persistence
}

// NewAuditLog creates an empty audit log. docs may be nil to keep the log
// in memory only.
func NewAuditLog(docs store.Store) *AuditLog {
	return &AuditLog{
		entries: make([]AuditEntry, LogCapacity),
		docs:    docs,
	}
}

// Record appends a timestamped, truncated entry for one check.
func (l *AuditLog) Record(content string, contentType ContentType, verdict Verdict) {
	entry := AuditEntry{
		Timestamp:     time.Now().UTC(),
		Content:       truncateRunes(content, logSnippetRunes),
		ContentType:   contentType,
		IsAppropriate: verdict.IsAppropriate,
		Severity:      verdict.Severity,
		Issues:        verdict.Issues,
	}

	l.mu.Lock()
	l.entries[l.pos] = entry
	l.pos = (l.pos + 1) % LogCapacity
	if l.count < LogCapacity {
		l.count++
	}
	snapshot := l.recentLocked(l.count)
	l.mu.Unlock()

	if l.docs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.docs.Set(ctx, logStoreKey, snapshot); err != nil {
		log.Printf("[moderation] audit log persist failed: %v", err)
	}
}

// Recent returns up to n entries in chronological order, oldest first.
func (l *AuditLog) Recent(n int) []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > l.count {
		n = l.count
	}
	all := l.recentLocked(l.count)
	return all[len(all)-n:]
}

// recentLocked copies the newest n entries out of the ring, oldest first.
// Caller holds l.mu.
func (l *AuditLog) recentLocked(n int) []AuditEntry {
	result := make([]AuditEntry, n)
	start := (l.pos - n + LogCapacity) % LogCapacity
	for i := 0; i < n; i++ {
		result[i] = l.entries[(start+i)%LogCapacity]
	}
	return result
}

// Stats summarizes the retained audit entries.
type Stats struct {
	TotalChecks      int            `json:"total_checks"`
	Blocked          int            `json:"blocked"`
	Approved         int            `json:"approved"`
	MostCommonIssues map[string]int `json:"most_common_issues"`
	RecentActivity   []AuditEntry   `json:"recent_activity"`
}

// Stats aggregates totals over the entries currently in the ring.
func (l *AuditLog) Stats() Stats {
	l.mu.Lock()
	all := l.recentLocked(l.count)
	l.mu.Unlock()

	stats := Stats{
		TotalChecks:      len(all),
		MostCommonIssues: make(map[string]int),
	}
	for _, e := range all {
		if e.IsAppropriate {
			stats.Approved++
		} else {
			stats.Blocked++
		}
		for _, issue := range e.Issues {
			stats.MostCommonIssues[issue]++
		}
	}

	recent := 10
	if recent > len(all) {
		recent = len(all)
	}
	stats.RecentActivity = all[len(all)-recent:]
	return stats
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
