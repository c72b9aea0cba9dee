package outbox

import (
	"context"
	"log/slog"
	"time"

	"service-booking/internal/infra/db"
	"service-booking/internal/infra/repository"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type Store interface {
	FetchPending(ctx context.Context, tx db.DBTX, limit int) ([]repository.OutboxRecord, error)
	MarkPublished(ctx context.Context, tx db.DBTX, ids []uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, tx db.DBTX, ids []uuid.UUID, lastError string) error
}

// Relay drains committed outbox rows to the publisher on a cron schedule.
// Rows are claimed with SKIP LOCKED, so several instances can run at once.
type Relay struct {
	pool      *pgxpool.Pool
	store     Store
	publisher Publisher
	clock     clock.Clock
	metrics   *metrics.Metrics
	spec      string
	batchSize int
	cron      *cron.Cron
}

func NewRelay(pool *pgxpool.Pool, store Store, publisher Publisher, clk clock.Clock, m *metrics.Metrics, cfg config.OutboxConfig) *Relay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Relay{
		pool:      pool,
		store:     store,
		publisher: publisher,
		clock:     clk,
		metrics:   m,
		spec:      cfg.RelaySpec,
		batchSize: batch,
	}
}

func (r *Relay) Start() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.spec, r.tick); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	slog.Info("outbox relay started", "spec", r.spec, "batch_size", r.batchSize)
	return nil
}

// Stop waits for a running batch to finish or ctx to expire.
func (r *Relay) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return r.publisher.Close()
}

func (r *Relay) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := r.RunOnce(ctx)
	if err != nil {
		slog.Error("outbox relay batch failed", "error", err.Error())
		return
	}
	if n > 0 {
		slog.Debug("outbox relay published", "count", n)
	}
}

func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	return shared.RunInTx(ctx, r.pool, func(tx db.DBTX) (int, error) {
		return r.PublishBatch(ctx, tx)
	})
}

// PublishBatch claims one batch inside tx. A publisher failure is recorded on
// the rows, which stay pending for the next tick.
func (r *Relay) PublishBatch(ctx context.Context, tx db.DBTX) (int, error) {
	records, err := r.store.FetchPending(ctx, tx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	msgs := make([]Message, len(records))
	ids := make([]uuid.UUID, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		msgs[i] = Message{
			ID:            rec.ID,
			AggregateType: rec.AggregateType,
			AggregateID:   rec.AggregateID,
			EventType:     rec.EventType,
			Payload:       rec.Payload,
			CreatedAt:     rec.CreatedAt,
		}
	}

	if err := r.publisher.Publish(ctx, msgs); err != nil {
		slog.Warn("outbox publish failed, will retry", "count", len(msgs), "error", err.Error())
		if err := r.store.MarkFailed(ctx, tx, ids, err.Error()); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if err := r.store.MarkPublished(ctx, tx, ids, r.clock.Now()); err != nil {
		return 0, err
	}
	r.metrics.OutboxPublished(len(msgs))
	return len(msgs), nil
}
