// Package recording manages in-memory capture sessions for the record
// tab. Media is opaque bytes; the manager tracks chunks and timing, not
// codecs or containers.
package recording

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonahtube/studio/internal/metrics"
)

// ErrNotFound is returned for an unknown or already-closed session.
var ErrNotFound = errors.New("recording: session not found")

// MaxSessionBytes caps the media accumulated per session.
const MaxSessionBytes = 256 << 20 // 256 MiB

// ErrTooLarge is returned when a chunk would push a session past
// MaxSessionBytes.
var ErrTooLarge = errors.New("recording: session too large")

// Clip is a finished recording.
type Clip struct {
	Media    []byte
	Duration time.Duration
}

type session struct {
	userID  string
	started time.Time
	chunks  [][]byte
	size    int
}

// Manager tracks open recording sessions in memory. It is
// goroutine-safe; a session ends through exactly one of Stop or Abort.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Start opens a new session for a user and returns its ID.
func (m *Manager) Start(userID string) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &session{userID: userID, started: m.now()}
	m.mu.Unlock()

	metrics.ActiveRecordings.Inc()
	return id
}

// AppendChunk adds captured media bytes to an open session.
func (m *Manager) AppendChunk(id string, chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if s.size+len(chunk) > MaxSessionBytes {
		return ErrTooLarge
	}

	// Copy so the caller can reuse its buffer.
	c := make([]byte, len(chunk))
	copy(c, chunk)
	s.chunks = append(s.chunks, c)
	s.size += len(c)
	return nil
}

// Stop closes a session and returns the assembled clip. The duration is
// measured from Start to Stop.
func (m *Manager) Stop(id string) (Clip, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return Clip{}, ErrNotFound
	}
	metrics.ActiveRecordings.Dec()

	media := make([]byte, 0, s.size)
	for _, c := range s.chunks {
		media = append(media, c...)
	}
	return Clip{Media: media, Duration: m.now().Sub(s.started)}, nil
}

// Abort discards a session and its media.
func (m *Manager) Abort(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	metrics.ActiveRecordings.Dec()
	return nil
}

// Owner returns the user that opened a session.
func (m *Manager) Owner(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return "", false
	}
	return s.userID, true
}
