package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonahtube/studio/internal/messaging"
	"github.com/jonahtube/studio/internal/video"
)

// DefaultSinkTimeout bounds how long a publish waits for the archiver's
// acknowledgement.
const DefaultSinkTimeout = 5 * time.Second

// NATSSink delivers approved records to the archiver over NATS
// request/reply. A missing or negative ack is a failed publish; the
// caller reports it once and nothing is retried.
type NATSSink struct {
	nc      *messaging.NATSClient
	timeout time.Duration
}

// NewNATSSink creates a sink over the given NATS client. A zero timeout
// falls back to DefaultSinkTimeout.
func NewNATSSink(nc *messaging.NATSClient, timeout time.Duration) *NATSSink {
	if timeout <= 0 {
		timeout = DefaultSinkTimeout
	}
	return &NATSSink{nc: nc, timeout: timeout}
}

// Publish sends the record to video.publish and waits for the archiver's
// ack.
func (s *NATSSink) Publish(ctx context.Context, rec video.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("publish: marshal record: %w", err)
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	reply, err := s.nc.RequestVideoPublish(data, timeout)
	if err != nil {
		return fmt.Errorf("publish: sink request: %w", err)
	}

	var ack video.PublishAck
	if err := json.Unmarshal(reply, &ack); err != nil {
		return fmt.Errorf("publish: sink ack: %w", err)
	}
	if !ack.OK {
		if ack.Error == "" {
			return errors.New("publish: sink refused record")
		}
		return fmt.Errorf("publish: sink refused record: %s", ack.Error)
	}
	return nil
}
