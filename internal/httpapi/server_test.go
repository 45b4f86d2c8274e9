package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonahtube/studio/internal/moderation"
	"github.com/jonahtube/studio/internal/policy"
	"github.com/jonahtube/studio/internal/publish"
	"github.com/jonahtube/studio/internal/recording"
	"github.com/jonahtube/studio/internal/video"
)

type fakeSubmitter struct {
	receipt publish.Receipt
	err     error
	got     *publish.Submission
}

func (f *fakeSubmitter) Submit(ctx context.Context, sub publish.Submission) (publish.Receipt, error) {
	f.got = &sub
	return f.receipt, f.err
}

type fakeLister struct {
	records []video.Record
	err     error
}

func (f *fakeLister) ListRecent(ctx context.Context, limit int) ([]video.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func newTestServer(sub *fakeSubmitter, list *fakeLister) *Server {
	if sub == nil {
		sub = &fakeSubmitter{}
	}
	if list == nil {
		list = &fakeLister{}
	}
	audit := moderation.NewAuditLog(nil)
	return NewServer(
		moderation.NewClassifierWithAudit(audit),
		audit,
		sub,
		list,
		recording.NewManager(),
		nil, // no limiter in handler tests
	)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestValidate_CleanContent(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	rr := postJSON(t, h, "/api/validate", validateRequest{
		Content:     "A lovely day at the lake",
		ContentType: "video-title",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp validateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Verdict.IsAppropriate {
		t.Errorf("verdict inappropriate for clean content: %v", resp.Verdict.Issues)
	}
	if resp.SafetyScore != 100 {
		t.Errorf("SafetyScore = %d, want 100", resp.SafetyScore)
	}
	if resp.Suggestion != "" {
		t.Errorf("Suggestion = %q, want empty for clean content", resp.Suggestion)
	}
}

func TestValidate_BlockedContentGetsSuggestion(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	rr := postJSON(t, h, "/api/validate", validateRequest{
		Content:     "this is stupid",
		ContentType: "video-title",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp validateResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Verdict.IsAppropriate {
		t.Error("verdict appropriate for blocked word")
	}
	if resp.Suggestion != "this is silly" {
		t.Errorf("Suggestion = %q, want %q", resp.Suggestion, "this is silly")
	}
}

func TestValidate_BadBody(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSubmit_Success(t *testing.T) {
	sub := &fakeSubmitter{receipt: publish.Receipt{VideoID: "v1", SafetyScore: 100}}
	h := newTestServer(sub, nil).Router()

	rr := postJSON(t, h, "/api/videos", publish.Submission{
		UserID: "u1",
		Title:  "My trip",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body)
	}

	var receipt publish.Receipt
	json.Unmarshal(rr.Body.Bytes(), &receipt)
	if receipt.VideoID != "v1" {
		t.Errorf("VideoID = %q, want v1", receipt.VideoID)
	}
	if sub.got == nil || sub.got.UserID != "u1" {
		t.Error("submission did not reach the publisher")
	}
}

func TestSubmit_MissingUserID(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	rr := postJSON(t, h, "/api/videos", publish.Submission{Title: "x"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSubmit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			"blocked account",
			&publish.Rejection{Kind: publish.ErrAccountBlocked, Message: "banned"},
			http.StatusForbidden,
		},
		{
			"rate limited",
			&publish.Rejection{Kind: publish.ErrRateLimited},
			http.StatusTooManyRequests,
		},
		{
			"sink failure",
			&publish.Rejection{Kind: publish.ErrSinkFailure},
			http.StatusBadGateway,
		},
		{
			"policy action",
			&publish.Rejection{Kind: publish.ErrContentRejected, Message: "warned", Action: policy.ActionWarning},
			http.StatusForbidden,
		},
		{
			"plain validation failure",
			&publish.Rejection{Kind: publish.ErrContentRejected, Issues: []string{"Content cannot be empty"}},
			http.StatusUnprocessableEntity,
		},
		{
			"infrastructure error",
			fmt.Errorf("redis down"),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(&fakeSubmitter{err: tt.err}, nil).Router()
			rr := postJSON(t, h, "/api/videos", publish.Submission{UserID: "u1"})
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestListVideos(t *testing.T) {
	list := &fakeLister{records: []video.Record{
		{VideoID: "a", Title: "first"},
		{VideoID: "b", Title: "second"},
	}}
	h := newTestServer(nil, list).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp struct {
		Videos []video.Record `json:"videos"`
	}
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Videos) != 2 {
		t.Errorf("returned %d videos, want 2", len(resp.Videos))
	}
}

func TestListVideos_BadLimit(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	for _, limit := range []string{"0", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/videos?limit="+limit, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rr.Code)
		}
	}
}

func TestRecordingLifecycle(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	rr := postJSON(t, h, "/api/recordings", startRecordingRequest{UserID: "u1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("start: status = %d, want 201", rr.Code)
	}
	var started struct {
		RecordingID string `json:"recording_id"`
	}
	json.Unmarshal(rr.Body.Bytes(), &started)
	if started.RecordingID == "" {
		t.Fatal("no recording_id in start response")
	}

	req := httptest.NewRequest(http.MethodPost, "/api/recordings/"+started.RecordingID+"/chunks", bytes.NewReader([]byte("media-bytes")))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("chunk: status = %d, want 204", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/recordings/"+started.RecordingID+"/stop", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("stop: status = %d, want 200", rr.Code)
	}
	var stopped struct {
		SizeBytes int `json:"size_bytes"`
	}
	json.Unmarshal(rr.Body.Bytes(), &stopped)
	if stopped.SizeBytes != len("media-bytes") {
		t.Errorf("size_bytes = %d, want %d", stopped.SizeBytes, len("media-bytes"))
	}
}

func TestRecording_UnknownSession(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/recordings/nope/stop", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestModerationStats(t *testing.T) {
	srv := newTestServer(nil, nil)
	h := srv.Router()

	postJSON(t, h, "/api/validate", validateRequest{Content: "this is stupid", ContentType: "video-title"})

	req := httptest.NewRequest(http.MethodGet, "/api/moderation/stats", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var stats moderation.Stats
	json.Unmarshal(rr.Body.Bytes(), &stats)
	if stats.TotalChecks != 1 || stats.Blocked != 1 {
		t.Errorf("stats = %+v, want one blocked check", stats)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(nil, nil).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
