package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Message is one outbox row as handed to a publisher.
type Message struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

type Publisher interface {
	Publish(ctx context.Context, msgs []Message) error
	Close() error
}

// LogPublisher stands in for a broker in local runs: events are logged and
// reported as delivered.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, msgs []Message) error {
	for _, m := range msgs {
		slog.Info("outbox event",
			"event_id", m.ID,
			"event_type", m.EventType,
			"aggregate_type", m.AggregateType,
			"aggregate_id", m.AggregateID,
			"payload", string(m.Payload),
		)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
