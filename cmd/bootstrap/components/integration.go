package components

import (
	"context"
	"log/slog"

	"service-booking/internal/infra/gateway"
	"service-booking/internal/infra/lock"
	"service-booking/internal/infra/outbox"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// IntegrationModule wires the external systems: payment gateway, redis and kafka.
var IntegrationModule = fx.Module("integration",
	fx.Provide(
		fx.Annotate(
			NewGateway,
			fx.As(new(shared.PaymentGateway)),
		),
		NewLocker,
		NewPublisher,
		NewRelay,
	),
	fx.Invoke(StartRelay),
)

func NewGateway(cfg config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway)
}

// NewLocker falls back to a process-local no-op when redis is not configured.
func NewLocker(lc fx.Lifecycle, cfg config.Config) (shared.Locker, error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, payment order locking is process-local")
		return lock.NewNoopLocker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return lock.NewRedisLocker(client), nil
}

func NewPublisher(lc fx.Lifecycle, cfg config.Config) outbox.Publisher {
	var p outbox.Publisher
	if len(cfg.Kafka.Brokers) == 0 {
		p = outbox.NewLogPublisher()
	} else {
		p = outbox.NewKafkaPublisher(cfg.Kafka)
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}

func NewRelay(pool *pgxpool.Pool, store outbox.Store, p outbox.Publisher, clk clock.Clock, m *metrics.Metrics, cfg config.Config) *outbox.Relay {
	return outbox.NewRelay(pool, store, p, clk, m, cfg.Outbox)
}

func StartRelay(lc fx.Lifecycle, r *outbox.Relay) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return r.Start()
		},
		OnStop: func(ctx context.Context) error {
			return r.Stop(ctx)
		},
	})
}
