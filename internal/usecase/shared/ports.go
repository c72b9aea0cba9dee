package shared

import (
	"context"
	"time"

	"service-booking/internal/pkg/errs"
)

var ErrLockNotAcquired = errs.NewKind("lock is held by another worker", errs.ErrConflict)

// GatewayOrder is the external payment intent opened for a booking.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

// GatewayPayment is the gateway's record of a customer payment.
type GatewayPayment struct {
	ID      string
	OrderID string
	Status  string
	Amount  int64
}

// Captured reports whether the gateway considers the money collected.
func (p GatewayPayment) Captured() bool {
	return p.Status == "captured" || p.Status == "authorized"
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Locker serialises work on a key across processes. Acquire fails with
// ErrLockNotAcquired when another holder owns the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
