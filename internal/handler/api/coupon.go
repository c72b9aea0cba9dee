package api

import (
	"net/http"
	"strconv"

	reqdto "service-booking/internal/handler/dto/request"
	resdto "service-booking/internal/handler/dto/response"
	"service-booking/internal/handler/httperr"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Create coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon definition"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cmds.Create(c.Request.Context(), req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", "/api/coupons/"+view.Code)
	c.JSON(http.StatusCreated, resdto.FromCouponView(view))
}

// @Summary Update coupon
// @Description Partial update; omitted fields are left unchanged
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Param request body reqdto.UpdateCouponRequest true "Fields to change"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{code} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	var req reqdto.UpdateCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cmds.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary Deactivate coupon
// @Tags coupons
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /coupons/{code} [delete]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	if err := h.cmds.Deactivate(c.Request.Context(), c.Param("code")); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get coupon
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /coupons/{code} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	view, err := h.q.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List coupons
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active coupons"
// @Param limit query int false "Max items (default 20)"
// @Param offset query int false "Items to skip"
// @Success 200 {array} resdto.CouponResponse
// @Router /coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	items, err := h.q.List(c.Request.Context(), activeOnly, intQuery(c, "limit", queries.DefaultListLimit), intQuery(c, "offset", 0))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": resdto.FromCouponList(items)})
}

// @Summary Preview coupon discount
// @Description Computes the discount a coupon would give without redeeming it
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Param request body reqdto.PreviewCouponRequest true "Order amount in minor units"
// @Success 200 {object} commands.DiscountQuote
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons/{code}/preview [post]
func (h *CouponHandler) Preview(c *gin.Context) {
	var req reqdto.PreviewCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.cmds.ComputeDiscount(c.Request.Context(), c.Param("code"), req.OrderAmount)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
