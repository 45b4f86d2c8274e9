package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/jonahtube/studio/internal/account"
	"github.com/jonahtube/studio/internal/config"
	"github.com/jonahtube/studio/internal/httpapi"
	"github.com/jonahtube/studio/internal/messaging"
	"github.com/jonahtube/studio/internal/moderation"
	"github.com/jonahtube/studio/internal/publish"
	"github.com/jonahtube/studio/internal/ratelimit"
	"github.com/jonahtube/studio/internal/recording"
	"github.com/jonahtube/studio/internal/store"
	"github.com/jonahtube/studio/internal/video"
	"github.com/jonahtube/studio/internal/violation"
)

func main() {
	log.Println("Starting JonahTube studio API...")

	cfg := config.Load()

	// Redis.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	cancel()

	// PostgreSQL plus schema migrations.
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to open PostgreSQL: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}
	if err := runMigrations(cfg); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// NATS.
	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.URL = cfg.NATSURL
	natsConfig.Name = "studio-api"
	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	// Moderation core with a persistent audit log.
	audit := moderation.NewAuditLog(store.NewRedisStore(rdb))
	classifier := moderation.NewClassifierWithAudit(audit)

	// Publish pipeline.
	accounts := account.NewStore(rdb)
	history := violation.NewStore(db)
	videos := video.NewStore(db)
	stats := video.NewStatsStore(rdb)
	limiter := ratelimit.NewLimiter(rdb)
	sink := publish.NewNATSSink(natsClient, 0)
	publisher := publish.NewPublisher(classifier, accounts, history, sink, limiter, stats)

	api := httpapi.NewServer(classifier, audit, publisher, videos, recording.NewManager(), limiter)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("studio API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	natsClient.Close()
	rdb.Close()
	db.Close()
}

// runMigrations applies pending schema migrations. An up-to-date schema
// is not an error.
func runMigrations(cfg config.Config) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
