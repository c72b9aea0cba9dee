//go:build e2e

package e2e

import (
	"net/http"
	"testing"
	"time"

	"service-booking/internal/handler/dto/request"
	"service-booking/internal/handler/dto/response"
	"service-booking/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewBookingRequest schedules packageID a week from now.
func NewBookingRequest(packageID uuid.UUID, couponCode *string) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		PackageID:   packageID,
		ServiceDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		ServiceTime: "10:30",
		Address:     "12 MG Road",
		City:        "Bengaluru",
		Pincode:     "560001",
		CouponCode:  couponCode,
	}
}

func (s *SharedSuite) CreateBooking(t *testing.T, token string, req request.CreateBookingRequest) response.BookingResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings", req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &b))
	return b
}

func (s *SharedSuite) CreateOrder(t *testing.T, token string, bookingID uuid.UUID) response.OrderResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments/orders",
		request.CreateOrderRequest{BookingID: bookingID}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var o response.OrderResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &o))
	return o
}

// PayOrder captures the order at the fake gateway and verifies it.
func (s *SharedSuite) PayOrder(t *testing.T, token, orderID string) response.PaymentResponse {
	t.Helper()
	paymentID := "pay_" + orderID
	sig := s.Gateway.Capture(orderID, paymentID)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/payments/verify", request.VerifyPaymentRequest{
		GatewayOrderID:   orderID,
		GatewayPaymentID: paymentID,
		GatewaySignature: sig,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p response.PaymentResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &p))
	return p
}

func (s *SharedSuite) GetBooking(t *testing.T, token string, id uuid.UUID) response.BookingResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/bookings/"+id.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var b response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &b))
	return b
}
