package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/jonahtube/studio/internal/config"
	"github.com/jonahtube/studio/internal/messaging"
	"github.com/jonahtube/studio/internal/video"
)

func main() {
	log.Println("Starting JonahTube archiver...")

	cfg := config.Load()

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

	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.URL = cfg.NATSURL
	natsConfig.Name = "studio-archiver"
	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	archiver := video.NewArchiver(video.NewStore(db), natsClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := archiver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("archiver: %v", err)
	}

	log.Println("shutting down...")
	natsClient.Close()
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
