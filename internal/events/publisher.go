package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher appends lifecycle events to Redis streams. Each event gets a
// uuid so downstream consumers can deduplicate across redeliveries.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event": eventJSON,
		},
	}

	entryID, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("publish %s to stream %s: %w", eventType, stream, err)
	}

	logrus.WithFields(logrus.Fields{
		"stream":  stream,
		"type":    eventType,
		"eventId": event.ID,
		"entryId": entryID,
	}).Debug("event published")

	return nil
}
