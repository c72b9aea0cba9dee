package bootstrap

import (
	"context"
	"log/slog"

	"service-booking/internal/handler/middleware"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/pkg/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// LoggerModule carries the observability stack: slog, prometheus and otel.
var LoggerModule = fx.Module("logger",
	fx.Provide(
		metrics.New,
		NewRequestLogger,
		NewLogger,
		NewTracerProvider,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func NewRequestLogger(cfg config.Config, m *metrics.Metrics) *middleware.Logger {
	return middleware.NewLogger(cfg.Log, m)
}

func NewLogger(l *middleware.Logger) *slog.Logger {
	return l.GetSlogLogger()
}

func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) (*sdktrace.TracerProvider, error) {
	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}
