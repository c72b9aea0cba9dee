package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"service-booking/internal/domain/user"
	"service-booking/internal/handler/api"
	"service-booking/internal/handler/middleware"
	"service-booking/internal/pkg/config"
	"service-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Booking *api.BookingHandler
	Coupon  *api.CouponHandler
	Payment *api.PaymentHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	m *metrics.Metrics,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	couponHandler *api.CouponHandler,
	paymentHandler *api.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, m, Handlers{
		Auth:    authHandler,
		Booking: bookingHandler,
		Coupon:  couponHandler,
		Payment: paymentHandler,
	}, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.Tracing())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, m *metrics.Metrics, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	customer := authMiddleware.RequireRole(user.RoleCustomer)
	employee := authMiddleware.RequireRole(user.RoleEmployee)
	admin := authMiddleware.RequireRole(user.RoleAdmin)
	staff := authMiddleware.RequireRole(user.RoleAdmin, user.RoleEmployee)
	ownerOrAdmin := authMiddleware.RequireRole(user.RoleCustomer, user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListAll, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodGet, Path: "/mine", Handler: h.Booking.ListMine, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodGet, Path: "/assigned", Handler: h.Booking.ListAssigned, Mw: []gin.HandlerFunc{employee}},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
				{Method: http.MethodPut, Path: "/:id/assign", Handler: h.Booking.Assign, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Booking.UpdateStatus, Mw: []gin.HandlerFunc{staff}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel, Mw: []gin.HandlerFunc{ownerOrAdmin}},
				{Method: http.MethodPost, Path: "/:id/feedback", Handler: h.Booking.AddFeedback, Mw: []gin.HandlerFunc{customer}},
			})
		}

		payments := apiGroup.Group("/payments")
		payments.Use(authMiddleware.RequireAuth())
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/orders", Handler: h.Payment.CreateOrder, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodPost, Path: "/verify", Handler: h.Payment.Verify, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodPost, Path: "/failed", Handler: h.Payment.MarkFailed, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodPost, Path: "/:id/refund", Handler: h.Payment.Refund, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodGet, Path: "/booking/:bookingId", Handler: h.Payment.GetByBooking},
				{Method: http.MethodGet, Path: "", Handler: h.Payment.ListByStatus, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodGet, Path: "/mine", Handler: h.Payment.ListMine, Mw: []gin.HandlerFunc{customer}},
				{Method: http.MethodGet, Path: "/revenue", Handler: h.Payment.Revenue, Mw: []gin.HandlerFunc{admin}},
			})
		}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireAuth())
		{
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Coupon.Create, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodGet, Path: "", Handler: h.Coupon.List, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodGet, Path: "/:code", Handler: h.Coupon.Get},
				{Method: http.MethodPut, Path: "/:code", Handler: h.Coupon.Update, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodDelete, Path: "/:code", Handler: h.Coupon.Deactivate, Mw: []gin.HandlerFunc{admin}},
				{Method: http.MethodPost, Path: "/:code/preview", Handler: h.Coupon.Preview},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
