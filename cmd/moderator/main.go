package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonahtube/studio/internal/config"
	"github.com/jonahtube/studio/internal/messaging"
	"github.com/jonahtube/studio/internal/metrics"
	"github.com/jonahtube/studio/internal/moderation"
)

func main() {
	log.Println("Starting JonahTube moderation service...")

	cfg := config.Load()

	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.URL = cfg.NATSURL
	natsConfig.Name = "studio-moderator"

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	classifier := moderation.NewClassifier()

	// Subscribe to moderation check requests.
	err = natsClient.SubscribeModerationCheck(func(data []byte) {
		var req moderation.CheckRequest
		if err := json.Unmarshal(data, &req); err != nil {
			log.Printf("[moderator] failed to unmarshal request: %v", err)
			return
		}

		start := time.Now()
		verdict := classifier.CheckContent(req.Content, req.ContentType)
		metrics.CheckLatency.Observe(time.Since(start).Seconds())

		switch {
		case verdict.Severity == moderation.SeverityError:
			metrics.ChecksTotal.WithLabelValues("invalid").Inc()
			log.Printf("[moderator] INVALID submission=%s type=%s issues=%v",
				req.SubmissionID, req.ContentType, verdict.Issues)
		case !verdict.IsAppropriate:
			metrics.ChecksTotal.WithLabelValues("blocked").Inc()
			log.Printf("[moderator] BLOCKED submission=%s type=%s severity=%s issues=%v",
				req.SubmissionID, req.ContentType, verdict.Severity, verdict.Issues)
		default:
			metrics.ChecksTotal.WithLabelValues("approved").Inc()
			log.Printf("[moderator] CLEAN submission=%s type=%s",
				req.SubmissionID, req.ContentType)
		}

		result := moderation.CheckResult{
			SubmissionID: req.SubmissionID,
			ContentType:  req.ContentType,
			Verdict:      verdict,
			SafetyScore:  classifier.SafetyScore(req.Content),
		}
		resultData, err := json.Marshal(result)
		if err != nil {
			log.Printf("[moderator] failed to marshal result: %v", err)
			return
		}
		if err := natsClient.PublishModerationResult(req.SubmissionID, resultData); err != nil {
			log.Printf("[moderator] failed to publish result: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to moderation checks: %v", err)
	}

	log.Printf("JonahTube moderation service running")
	log.Printf("  nats_url: %s", natsConfig.URL)

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	natsClient.Close()
}
