// Package httpapi exposes the studio's REST surface: field validation,
// video submission, recording sessions, and moderation stats.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jonahtube/studio/internal/metrics"
	"github.com/jonahtube/studio/internal/moderation"
	"github.com/jonahtube/studio/internal/publish"
	"github.com/jonahtube/studio/internal/ratelimit"
	"github.com/jonahtube/studio/internal/recording"
	"github.com/jonahtube/studio/internal/video"
)

// Submitter runs the publish workflow for a submission.
type Submitter interface {
	Submit(ctx context.Context, sub publish.Submission) (publish.Receipt, error)
}

// VideoLister reads back published records.
type VideoLister interface {
	ListRecent(ctx context.Context, limit int) ([]video.Record, error)
}

// Limiter throttles per-user requests. A nil limiter disables throttling
// (used in tests).
type Limiter interface {
	Allow(ctx context.Context, identifier string, rule ratelimit.Rule) (bool, error)
}

// Server holds the handlers' collaborators.
type Server struct {
	classifier *moderation.Classifier
	audit      *moderation.AuditLog
	publisher  Submitter
	videos     VideoLister
	recordings *recording.Manager
	limiter    Limiter

	startedAt time.Time
}

// NewServer wires the API server from its collaborators.
func NewServer(c *moderation.Classifier, audit *moderation.AuditLog, pub Submitter, videos VideoLister, rec *recording.Manager, limiter Limiter) *Server {
	return &Server{
		classifier: c,
		audit:      audit,
		publisher:  pub,
		videos:     videos,
		recordings: rec,
		limiter:    limiter,
		startedAt:  time.Now(),
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Get("/validate/live", s.handleValidateLive)

		r.Post("/videos", s.handleSubmit)
		r.Get("/videos", s.handleListVideos)

		r.Route("/recordings", func(r chi.Router) {
			r.Post("/", s.handleStartRecording)
			r.Post("/{id}/chunks", s.handleAppendChunk)
			r.Post("/{id}/stop", s.handleStopRecording)
			r.Delete("/{id}", s.handleAbortRecording)
		})

		r.Get("/moderation/stats", s.handleModerationStats)
	})

	return r
}
