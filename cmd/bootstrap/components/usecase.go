package components

import (
	"service-booking/internal/domain/booking"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/config"
	"service-booking/internal/usecase"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		NewNumberGenerator,
		fx.As(new(booking.NumberGenerator)),
	),
	NewPaymentSettings,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCouponCommands,
		// booking creation redeems through the coupon ledger
		func(c commands.CouponCommands) commands.CouponRedeemer { return c },
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
		queries.NewCouponQueries,
		NewPaymentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewNumberGenerator(cfg config.Config) booking.RandomNumberGenerator {
	return booking.RandomNumberGenerator{
		Prefix: cfg.Booking.NumberPrefix,
		Length: cfg.Booking.NumberLength,
	}
}

func NewPaymentSettings(cfg config.Config) commands.PaymentSettings {
	return commands.PaymentSettings{
		Currency: cfg.Gateway.Currency,
		KeyID:    cfg.Gateway.KeyID,
		LockTTL:  cfg.Redis.LockTTL,
	}
}

func NewPaymentQueries(store queries.PaymentReadStore, cfg config.Config) queries.PaymentQueries {
	return queries.NewPaymentQueries(store, cfg.Gateway.Currency)
}
