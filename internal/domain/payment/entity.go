package payment

import (
	"strings"
	"time"

	"service-booking/internal/domain/money"
	"service-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound    = errs.NewKind("payment not found", errs.ErrNotFound)
	ErrAlreadyCompleted   = errs.NewKind("payment already completed for this booking", errs.ErrAlreadyCompleted)
	ErrPaymentNotOpen     = errs.NewKind("payment is not awaiting completion", errs.ErrInvalidState)
	ErrNotRefundable      = errs.NewKind("only completed payments can be refunded", errs.ErrInvalidState)
	ErrNothingToPay       = errs.NewKind("booking has nothing to pay", errs.ErrInvalidState)
	ErrGatewayOrderAbsent = errs.NewKind("payment has no gateway order", errs.ErrInvalidState)
	ErrSignatureMismatch  = errs.NewKind("payment signature mismatch", errs.ErrSignatureMismatch)
	ErrPaymentIDRequired  = errs.NewKind("gateway payment id is required", errs.ErrValidationFailed)
)

type Payment struct {
	id               uuid.UUID
	bookingID        uuid.UUID
	customerID       uuid.UUID
	amount           money.Money
	currency         string
	method           Method
	status           Status
	gatewayOrderID   *string
	gatewayPaymentID *string
	gatewaySignature *string
	failureReason    *string
	paidAt           *time.Time
	createdAt        time.Time
	updatedAt        time.Time
}

func New(bookingID, customerID uuid.UUID, amount money.Money, currency string, now time.Time) (*Payment, error) {
	if amount.IsZero() {
		return nil, ErrNothingToPay
	}
	return &Payment{
		id:         uuid.New(),
		bookingID:  bookingID,
		customerID: customerID,
		amount:     amount,
		currency:   strings.ToUpper(currency),
		method:     MethodGateway,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

type ReconstructParams struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	CustomerID       uuid.UUID
	Amount           int64
	Currency         string
	Method           string
	Status           string
	GatewayOrderID   *string
	GatewayPaymentID *string
	GatewaySignature *string
	FailureReason    *string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func Reconstruct(p ReconstructParams) *Payment {
	return &Payment{
		id:               p.ID,
		bookingID:        p.BookingID,
		customerID:       p.CustomerID,
		amount:           money.FromMinor(p.Amount),
		currency:         p.Currency,
		method:           Method(p.Method),
		status:           Status(p.Status),
		gatewayOrderID:   p.GatewayOrderID,
		gatewayPaymentID: p.GatewayPaymentID,
		gatewaySignature: p.GatewaySignature,
		failureReason:    p.FailureReason,
		paidAt:           p.PaidAt,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}
}

// AttachGatewayOrder records the external order. The payment stays PENDING
// until the gateway confirms it.
func (p *Payment) AttachGatewayOrder(orderID string, now time.Time) error {
	if !p.status.IsOpen() {
		return ErrPaymentNotOpen
	}
	p.gatewayOrderID = &orderID
	p.updatedAt = now
	return nil
}

// Complete stamps the verified gateway identifiers. Callers must have checked
// the signature before calling it.
func (p *Payment) Complete(gatewayPaymentID, signature string, now time.Time) error {
	if p.status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if !p.status.IsOpen() {
		return ErrPaymentNotOpen
	}
	if p.gatewayOrderID == nil {
		return ErrGatewayOrderAbsent
	}
	if gatewayPaymentID == "" {
		return ErrPaymentIDRequired
	}
	p.gatewayPaymentID = &gatewayPaymentID
	p.gatewaySignature = &signature
	p.status = StatusCompleted
	p.failureReason = nil
	p.paidAt = &now
	p.updatedAt = now
	return nil
}

func (p *Payment) Fail(reason string, now time.Time) error {
	if !p.status.IsOpen() {
		return ErrPaymentNotOpen
	}
	p.status = StatusFailed
	p.failureReason = &reason
	p.updatedAt = now
	return nil
}

func (p *Payment) Refund(now time.Time) error {
	if p.status != StatusCompleted {
		return ErrNotRefundable
	}
	p.status = StatusRefunded
	p.updatedAt = now
	return nil
}

func (p *Payment) IsCompleted() bool {
	return p.status == StatusCompleted
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) BookingID() uuid.UUID      { return p.bookingID }
func (p *Payment) CustomerID() uuid.UUID     { return p.customerID }
func (p *Payment) Amount() money.Money       { return p.amount }
func (p *Payment) Currency() string          { return p.currency }
func (p *Payment) Method() Method            { return p.method }
func (p *Payment) Status() Status            { return p.status }
func (p *Payment) GatewayOrderID() *string   { return p.gatewayOrderID }
func (p *Payment) GatewayPaymentID() *string { return p.gatewayPaymentID }
func (p *Payment) GatewaySignature() *string { return p.gatewaySignature }
func (p *Payment) FailureReason() *string    { return p.failureReason }
func (p *Payment) PaidAt() *time.Time        { return p.paidAt }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time      { return p.updatedAt }
