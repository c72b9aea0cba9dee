package api

import (
	"net/http"

	reqdto "service-booking/internal/handler/dto/request"
	resdto "service-booking/internal/handler/dto/response"
	"service-booking/internal/handler/httperr"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a service package, optionally redeeming a coupon
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), customerID, req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Admins see every booking, customers their own, employees those assigned to them
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actorID, role, ok := identity(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List all bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Booking status filter"
// @Param limit query int false "Max items (default 20)"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListAll(c *gin.Context) {
	cursor, limit := paging(c)
	items, next, err := h.q.ListAll(c.Request.Context(), c.Query("status"), cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Router /bookings/mine [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
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
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary List bookings assigned to me
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.BookingListResponse
// @Router /bookings/assigned [get]
func (h *BookingHandler) ListAssigned(c *gin.Context) {
	employeeID, _, ok := identity(c)
	if !ok {
		return
	}
	cursor, limit := paging(c)
	items, next, err := h.q.ListByEmployee(c.Request.Context(), employeeID, cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items, next))
}

// @Summary Assign employee
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AssignBookingRequest true "Employee to assign"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/assign [put]
func (h *BookingHandler) Assign(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.AssignBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.Assign(c.Request.Context(), id, req.EmployeeID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Update booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingStatusRequest true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actorID, role, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.UpdateStatus(c.Request.Context(), id, actorID, role, req.Status)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actorID, role, ok := identity(c)
	if !ok {
		return
	}

	view, err := h.cmds.Cancel(c.Request.Context(), id, actorID, role)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Leave feedback
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.FeedbackRequest true "Rating and feedback"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/feedback [post]
func (h *BookingHandler) AddFeedback(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	customerID, _, ok := identity(c)
	if !ok {
		return
	}
	var req reqdto.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.AddFeedback(c.Request.Context(), id, customerID, req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
