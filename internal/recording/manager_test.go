package recording

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestStartStop_AssemblesChunksInOrder(t *testing.T) {
	m := NewManager()

	id := m.Start("u1")
	if id == "" {
		t.Fatal("Start returned empty session ID")
	}

	for _, chunk := range [][]byte{[]byte("aaa"), []byte("bbb"), []byte("ccc")} {
		if err := m.AppendChunk(id, chunk); err != nil {
			t.Fatalf("AppendChunk() error: %v", err)
		}
	}

	clip, err := m.Stop(id)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if !bytes.Equal(clip.Media, []byte("aaabbbccc")) {
		t.Errorf("Media = %q, want chunks concatenated in order", clip.Media)
	}
}

func TestStop_DurationMeasuredFromStart(t *testing.T) {
	m := NewManager()
	base := time.Now()
	m.now = func() time.Time { return base }

	id := m.Start("u1")
	m.now = func() time.Time { return base.Add(42 * time.Second) }

	clip, err := m.Stop(id)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if clip.Duration != 42*time.Second {
		t.Errorf("Duration = %v, want 42s", clip.Duration)
	}
}

func TestStop_UnknownSession(t *testing.T) {
	m := NewManager()

	if _, err := m.Stop("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stop(unknown) = %v, want ErrNotFound", err)
	}
}

func TestSessionEndsExactlyOnce(t *testing.T) {
	m := NewManager()
	id := m.Start("u1")

	if _, err := m.Stop(id); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if _, err := m.Stop(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Stop() = %v, want ErrNotFound", err)
	}
	if err := m.Abort(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Abort() after Stop() = %v, want ErrNotFound", err)
	}
}

func TestAbort_DiscardsMedia(t *testing.T) {
	m := NewManager()
	id := m.Start("u1")
	m.AppendChunk(id, []byte("data"))

	if err := m.Abort(id); err != nil {
		t.Fatalf("Abort() error: %v", err)
	}
	if err := m.AppendChunk(id, []byte("more")); !errors.Is(err, ErrNotFound) {
		t.Errorf("AppendChunk() after Abort() = %v, want ErrNotFound", err)
	}
}

func TestAppendChunk_SizeCap(t *testing.T) {
	m := NewManager()
	id := m.Start("u1")

	s := m.sessions[id]
	s.size = MaxSessionBytes - 1

	if err := m.AppendChunk(id, []byte("xx")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("AppendChunk() over cap = %v, want ErrTooLarge", err)
	}
}

func TestOwner(t *testing.T) {
	m := NewManager()
	id := m.Start("creator")

	owner, ok := m.Owner(id)
	if !ok || owner != "creator" {
		t.Errorf("Owner() = %q, %v; want creator, true", owner, ok)
	}
	if _, ok := m.Owner("nope"); ok {
		t.Error("Owner(unknown) reported a session")
	}
}

func TestAppendChunk_CopiesCallerBuffer(t *testing.T) {
	m := NewManager()
	id := m.Start("u1")

	buf := []byte("abc")
	m.AppendChunk(id, buf)
	buf[0] = 'z'

	clip, _ := m.Stop(id)
	if !bytes.Equal(clip.Media, []byte("abc")) {
		t.Errorf("Media = %q, caller buffer mutation leaked in", clip.Media)
	}
}
