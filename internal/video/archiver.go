package video

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jonahtube/studio/internal/messaging"
)

// PublishAck is the archiver's reply to a publish request. OK reports
// whether the record was stored; Error carries the failure reason when
// it was not.
type PublishAck struct {
	OK      bool   `json:"ok"`
	VideoID string `json:"video_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

const storeTimeout = 5 * time.Second

// Archiver consumes video.publish requests, persists the record, and
// replies with an ack. It is the confirming side of the publish sink:
// the publisher treats a missing or negative ack as a failed publish.
type Archiver struct {
	store *Store
	nats  *messaging.NATSClient
}

// NewArchiver creates an archiver over the given store and NATS client.
func NewArchiver(store *Store, nc *messaging.NATSClient) *Archiver {
	return &Archiver{store: store, nats: nc}
}

// Run subscribes to publish requests and blocks until ctx is cancelled.
func (a *Archiver) Run(ctx context.Context) error {
	if err := a.nats.SubscribeVideoPublish(a.handle); err != nil {
		return err
	}
	log.Printf("[archiver] consuming %s", messaging.SubjectVideoPublish)
	<-ctx.Done()
	return ctx.Err()
}

func (a *Archiver) handle(msg *nats.Msg) {
	var rec Record
	if err := json.Unmarshal(msg.Data, &rec); err != nil {
		log.Printf("[archiver] bad publish payload: %v", err)
		a.reply(msg, PublishAck{Error: "malformed publish request"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := a.store.Create(ctx, &rec); err != nil {
		log.Printf("[archiver] store %s: %v", rec.VideoID, err)
		a.reply(msg, PublishAck{VideoID: rec.VideoID, Error: "storage failure"})
		return
	}

	log.Printf("[archiver] stored video %s for user %s", rec.VideoID, rec.UserID)
	a.reply(msg, PublishAck{OK: true, VideoID: rec.VideoID})
}

func (a *Archiver) reply(msg *nats.Msg, ack PublishAck) {
	data, err := json.Marshal(ack)
	if err != nil {
		log.Printf("[archiver] marshal ack: %v", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("[archiver] respond: %v", err)
	}
}
