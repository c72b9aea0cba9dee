package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	AggregateBooking = "booking"
	AggregatePayment = "payment"
	AggregateCoupon  = "coupon"
)

const (
	EventBookingCreated       = "booking.created"
	EventBookingAssigned      = "booking.assigned"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingFeedback      = "booking.feedback_added"
	EventCouponRedeemed       = "coupon.redeemed"
	EventPaymentOrderCreated  = "payment.order_created"
	EventPaymentCompleted     = "payment.completed"
	EventPaymentFailed        = "payment.failed"
	EventPaymentRefunded      = "payment.refunded"
)

// Event is written to the outbox in the same transaction as the state change
// it describes. Payload is JSON-encoded by the outbox repository.
type Event struct {
	AggregateType string
	AggregateID   uuid.UUID
	Type          string
	Payload       any
	OccurredAt    time.Time
}
