package bootstrap

import (
	"context"
	"log/slog"

	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(NewDB),
	fx.Invoke(ObservePool),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}
	slog.Info("database connected", "host", cfg.DB.Host, "db", cfg.DB.DBName, "max_conns", pool.Config().MaxConns)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			cleanup()
			return nil
		},
	})
	return pool, nil
}

// ObservePool exports pgxpool occupancy on /metrics.
func ObservePool(pool *pgxpool.Pool, m *metrics.Metrics) {
	m.ObservePool(func() metrics.PoolStats {
		s := pool.Stat()
		return metrics.PoolStats{
			Acquired: s.AcquiredConns(),
			Idle:     s.IdleConns(),
			Total:    s.TotalConns(),
		}
	})
}
