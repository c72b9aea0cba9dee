package api

import (
	"net/http"

	"service-booking/internal/domain/payment"
	reqdto "service-booking/internal/handler/dto/request"
	resdto "service-booking/internal/handler/dto/response"
	"service-booking/internal/handler/httperr"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Create gateway order
// @Description Opens (or reuses) a gateway order for a booking awaiting payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOrderRequest true "Booking to pay for"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/orders [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.CreateOrder(c.Request.Context(), customerID, req.BookingID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.OrderResponse{
		Payment: resdto.FromPaymentView(result.Payment),
		OrderID: result.OrderID,
		Amount:  result.Amount,
		KeyID:   result.KeyID,
	})
}

// @Summary Verify payment
// @Description Checks the checkout signature and the gateway record, then completes the payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyPaymentRequest true "Gateway callback values"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.Verify(c.Request.Context(), customerID, req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Report failed payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FailPaymentRequest true "Gateway order and reason"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/failed [post]
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.FailPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.MarkFailed(c.Request.Context(), customerID, req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Record refund
// @Description Marks a completed payment as refunded; no money moves through the gateway
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	view, err := h.cmds.Refund(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Latest payment of a booking
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/booking/{bookingId} [get]
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	bookingID, ok := pathUUID(c, "bookingId")
	if !ok {
		return
	}
	actorID, role, ok := identity(c)
	if !ok {
		return
	}
	view, err := h.q.GetByBookingID(c.Request.Context(), bookingID, actorID, role)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary List payments by status
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Payment status (default COMPLETED)"
// @Param limit query int false "Max items (default 20)"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 400 {object} httperr.Response
// @Router /payments [get]
func (h *PaymentHandler) ListByStatus(c *gin.Context) {
	cursor, limit := paging(c)
	status := c.DefaultQuery("status", payment.StatusCompleted.String())
	items, next, err := h.q.ListByStatus(c.Request.Context(), status, cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentList(items, next))
}

// @Summary List my payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.PaymentListResponse
// @Router /payments/mine [get]
func (h *PaymentHandler) ListMine(c *gin.Context) {
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	cursor, limit := paging(c)
	items, next, err := h.q.ListByCustomer(c.Request.Context(), customerID, cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentList(items, next))
}

// @Summary Total revenue
// @Description Sum of completed payments in the configured currency
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RevenueResponse
// @Router /payments/revenue [get]
func (h *PaymentHandler) Revenue(c *gin.Context) {
	view, err := h.q.TotalRevenue(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRevenueView(view))
}
