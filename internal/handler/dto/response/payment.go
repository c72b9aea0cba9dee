package response

import (
	"time"

	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentResponse struct {
	ID               uuid.UUID  `json:"id"`
	BookingID        uuid.UUID  `json:"bookingId"`
	BookingNumber    string     `json:"bookingNumber,omitempty"`
	CustomerID       uuid.UUID  `json:"customerId"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Method           string     `json:"method"`
	Status           string     `json:"status"`
	GatewayOrderID   *string    `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID *string    `json:"gatewayPaymentId,omitempty"`
	FailureReason    *string    `json:"failureReason,omitempty"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type PaymentListResponse struct {
	Payments   []*PaymentResponse `json:"payments"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

// OrderResponse is what a checkout client needs to open the gateway widget.
type OrderResponse struct {
	Payment *PaymentResponse `json:"payment"`
	OrderID string           `json:"orderId"`
	Amount  int64            `json:"amount"`
	KeyID   string           `json:"keyId"`
}

type RevenueResponse struct {
	Total    int64  `json:"total"`
	Count    int64  `json:"count"`
	Currency string `json:"currency"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	return copyInto(&PaymentResponse{}, v)
}

func FromPaymentList(items []*queries.PaymentView, next *queries.Cursor) *PaymentListResponse {
	res := &PaymentListResponse{Payments: copyAll[PaymentResponse](items)}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}

func FromRevenueView(v *queries.RevenueView) *RevenueResponse {
	return copyInto(&RevenueResponse{}, v)
}
