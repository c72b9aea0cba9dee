package repository

import (
	"context"
	"encoding/json"
	"time"

	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// OutboxRecord is an event row awaiting publication.
type OutboxRecord struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	Attempts      int
	CreatedAt     time.Time
}

type OutboxRepository struct{}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

func (r *OutboxRepository) Append(ctx context.Context, tx db.DBTX, ev shared.Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return errs.Wrap(err, "encode outbox payload")
	}

	const q = `INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, q, uuid.New(), ev.AggregateType, ev.AggregateID, ev.Type, payload, ev.OccurredAt); err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

// FetchPending locks up to limit unpublished rows; concurrent relays skip them.
func (r *OutboxRepository) FetchPending(ctx context.Context, tx db.DBTX, limit int) ([]OutboxRecord, error) {
	const q = `SELECT id, aggregate_type, aggregate_id, event_type, payload, attempts, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, q, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to fetch outbox events", err)
	}
	defer rows.Close()

	var out []OutboxRecord
	for rows.Next() {
		var rec OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.AggregateType, &rec.AggregateID, &rec.EventType, &rec.Payload, &rec.Attempts, &rec.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, tx db.DBTX, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `UPDATE outbox_events SET published_at = $2, attempts = attempts + 1, last_error = NULL WHERE id = ANY($1)`
	if _, err := tx.Exec(ctx, q, ids, at); err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, tx db.DBTX, ids []uuid.UUID, lastError string) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `UPDATE outbox_events SET attempts = attempts + 1, last_error = $2 WHERE id = ANY($1)`
	if _, err := tx.Exec(ctx, q, ids, lastError); err != nil {
		return infra.WrapRepoErr("failed to record outbox failure", err)
	}
	return nil
}
