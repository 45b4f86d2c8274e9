package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonahtube/studio/internal/metrics"
	"github.com/jonahtube/studio/internal/moderation"
	"github.com/jonahtube/studio/internal/policy"
	"github.com/jonahtube/studio/internal/publish"
	"github.com/jonahtube/studio/internal/ratelimit"
	"github.com/jonahtube/studio/internal/recording"
)

const maxChunkBytes = 8 << 20 // 8 MiB per chunk upload

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

type errorResponse struct {
	Error  string   `json:"error"`
	Issues []string `json:"issues,omitempty"`
	Action string   `json:"action,omitempty"`
}

// validateRequest is one field-validation call from the creation form.
type validateRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type validateResponse struct {
	Verdict     moderation.Verdict `json:"verdict"`
	SafetyScore int                `json:"safety_score"`
	Suggestion  string             `json:"suggestion,omitempty"`
}

// allowed applies a rate limit rule when a limiter is configured.
func (s *Server) allowed(r *http.Request, id string, rule ratelimit.Rule) bool {
	if s.limiter == nil || id == "" {
		return true
	}
	ok, _ := s.limiter.Allow(r.Context(), id, rule)
	return ok
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if !s.allowed(r, r.Header.Get("X-User-ID"), ratelimit.RuleValidate) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many validation requests"})
		return
	}

	writeJSON(w, http.StatusOK, s.validate(req))
}

// validate runs one check and assembles the response shared by the REST
// and WebSocket validation endpoints.
func (s *Server) validate(req validateRequest) validateResponse {
	start := time.Now()
	verdict := s.classifier.CheckContent(req.Content, moderation.ContentType(req.ContentType))
	metrics.CheckLatency.Observe(time.Since(start).Seconds())

	switch {
	case verdict.Severity == moderation.SeverityError:
		metrics.ChecksTotal.WithLabelValues("invalid").Inc()
	case !verdict.IsAppropriate:
		metrics.ChecksTotal.WithLabelValues("blocked").Inc()
	default:
		metrics.ChecksTotal.WithLabelValues("approved").Inc()
	}

	resp := validateResponse{
		Verdict:     verdict,
		SafetyScore: s.classifier.SafetyScore(req.Content),
	}
	if !verdict.IsAppropriate && verdict.Severity != moderation.SeverityError {
		resp.Suggestion = s.classifier.SuggestClean(req.Content)
	}
	return resp
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub publish.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if sub.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}

	receipt, err := s.publisher.Submit(r.Context(), sub)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// writeSubmitError maps publish failures to response codes: blocked
// accounts and policy actions are 403, plain content problems 422, rate
// limits 429, sink failures 502, anything else 500.
func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	var rej *publish.Rejection
	if !errors.As(err, &rej) {
		log.Printf("[api] submit: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	resp := errorResponse{Error: rej.Message, Issues: rej.Issues}
	if rej.Action != "" && rej.Action != policy.ActionNone {
		resp.Action = string(rej.Action)
	}
	if resp.Error == "" {
		resp.Error = "Content did not pass moderation."
	}

	switch {
	case errors.Is(err, publish.ErrAccountBlocked):
		writeJSON(w, http.StatusForbidden, resp)
	case errors.Is(err, publish.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, resp)
	case errors.Is(err, publish.ErrSinkFailure):
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.Is(err, publish.ErrContentRejected):
		if rej.Action != "" && rej.Action != policy.ActionNone {
			writeJSON(w, http.StatusForbidden, resp)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be in [1,100]"})
			return
		}
		limit = n
	}

	records, err := s.videos.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("[api] list videos: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": records})
}

type startRecordingRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	var req startRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
		return
	}
	if !s.allowed(r, req.UserID, ratelimit.RuleRecord) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many recording sessions"})
		return
	}

	id := s.recordings.Start(req.UserID)
	writeJSON(w, http.StatusCreated, map[string]string{"recording_id": id})
}

func (s *Server) handleAppendChunk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxChunkBytes)
	chunk, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "chunk too large"})
		return
	}

	if err := s.recordings.AppendChunk(id, chunk); err != nil {
		s.writeRecordingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	clip, err := s.recordings.Stop(id)
	if err != nil {
		s.writeRecordingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recording_id":     id,
		"duration_seconds": clip.Duration.Seconds(),
		"size_bytes":       len(clip.Media),
	})
}

func (s *Server) handleAbortRecording(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.recordings.Abort(id); err != nil {
		s.writeRecordingError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeRecordingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recording.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "recording session not found"})
	case errors.Is(err, recording.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "recording too large"})
	default:
		log.Printf("[api] recording: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleModerationStats(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeJSON(w, http.StatusOK, moderation.Stats{})
		return
	}
	writeJSON(w, http.StatusOK, s.audit.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}
