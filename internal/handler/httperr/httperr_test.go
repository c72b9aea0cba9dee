//go:build unit

package httperr_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/coupon"
	"service-booking/internal/domain/payment"
	"service-booking/internal/handler/httperr"
	"service-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{coupon.ErrInvalidCouponCode, http.StatusBadRequest},
		{booking.ErrUnknownStatus, http.StatusBadRequest},
		{booking.ErrNotEmployee, http.StatusBadRequest},
		{coupon.ErrMinimumOrderNotMet, http.StatusBadRequest},
		{payment.ErrSignatureMismatch, http.StatusBadRequest},
		{booking.ErrIllegalTransition, http.StatusConflict},
		{coupon.ErrUsageLimitReached, http.StatusConflict},
		{payment.ErrAlreadyCompleted, http.StatusConflict},
		{errs.ErrUnauthorized, http.StatusUnauthorized},
		{errs.ErrForbidden, http.StatusForbidden},
		{errs.NewKind("upstream", errs.ErrExternalService), http.StatusBadGateway},
		{errs.Wrap(booking.ErrBookingNotFound, "load"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, httperr.StatusFor(tc.err))
		})
	}
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(err error) (*httptest.ResponseRecorder, httperr.Response) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		httperr.Abort(c, err)

		var body httperr.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec, body
	}

	t.Run("domain error keeps message and kind", func(t *testing.T) {
		rec, body := run(coupon.ErrUsageLimitReached)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "coupon usage limit reached", body.Error.Message)
		assert.Equal(t, "LIMIT_EXCEEDED", body.Error.Kind)
	})

	t.Run("internal error text is hidden", func(t *testing.T) {
		rec, body := run(errors.New("pq: password authentication failed"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", body.Error.Message)
		assert.Empty(t, body.Error.Kind)
	})
}
