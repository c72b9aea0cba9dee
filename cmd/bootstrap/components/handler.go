package components

import (
	"service-booking/internal/handler"
	"service-booking/internal/handler/api"
	"service-booking/internal/handler/middleware"
	"service-booking/internal/handler/validate"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewCouponHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		validate.Register,
		handler.NewRouter,
	),
)
