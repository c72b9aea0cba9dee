package bootstrap

import (
	"time"

	"service-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewLocation,
	),
)

// NewLocation resolves the zone booking schedules are entered in.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Booking.Location()
}
