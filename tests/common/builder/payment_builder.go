//go:build unit || e2e

package builder

import (
	"time"

	"service-booking/internal/domain/money"
	"service-booking/internal/domain/payment"
	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const TestGatewaySecret = "test_gateway_secret"

type PaymentBuilder struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	CustomerID       uuid.UUID
	Amount           int64
	Currency         string
	Status           payment.Status
	GatewayOrderID   *string
	GatewayPaymentID *string
	Now              time.Time
}

// Default: pending 400.00 INR payment with a gateway order attached.
func NewPaymentBuilder() *PaymentBuilder {
	orderID := "order_TEST0001"
	return &PaymentBuilder{
		ID:             uuid.New(),
		BookingID:      uuid.New(),
		CustomerID:     uuid.New(),
		Amount:         40000,
		Currency:       "INR",
		Status:         payment.StatusPending,
		GatewayOrderID: &orderID,
		Now:            time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) WithStatus(status payment.Status) *PaymentBuilder {
	b.Status = status
	return b
}

func (b *PaymentBuilder) WithoutGatewayOrder() *PaymentBuilder {
	b.GatewayOrderID = nil
	return b
}

func (b *PaymentBuilder) BuildDomain() (*payment.Payment, error) {
	return payment.New(b.BookingID, b.CustomerID, money.FromMinor(b.Amount), b.Currency, b.Now)
}

func (b *PaymentBuilder) BuildReconstructed() *payment.Payment {
	var paidAt *time.Time
	if b.Status == payment.StatusCompleted || b.Status == payment.StatusRefunded {
		paidAt = &b.Now
	}
	return payment.Reconstruct(payment.ReconstructParams{
		ID:               b.ID,
		BookingID:        b.BookingID,
		CustomerID:       b.CustomerID,
		Amount:           b.Amount,
		Currency:         b.Currency,
		Method:           payment.MethodGateway.String(),
		Status:           b.Status.String(),
		GatewayOrderID:   b.GatewayOrderID,
		GatewayPaymentID: b.GatewayPaymentID,
		PaidAt:           paidAt,
		CreatedAt:        b.Now,
		UpdatedAt:        b.Now,
	})
}

// Signature returns a valid gateway signature for paymentID under TestGatewaySecret.
func (b *PaymentBuilder) Signature(paymentID string) string {
	return payment.ComputeSignature(TestGatewaySecret, *b.GatewayOrderID, paymentID)
}

func (b *PaymentBuilder) BuildView() *queries.PaymentView {
	return &queries.PaymentView{
		ID:               b.ID,
		BookingID:        b.BookingID,
		BookingNumber:    "BKGTEST0001",
		CustomerID:       b.CustomerID,
		Amount:           b.Amount,
		Currency:         b.Currency,
		Method:           payment.MethodGateway.String(),
		Status:           b.Status.String(),
		GatewayOrderID:   b.GatewayOrderID,
		GatewayPaymentID: b.GatewayPaymentID,
		CreatedAt:        b.Now,
		UpdatedAt:        b.Now,
	}
}
