package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/payment"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/pkg/tracing"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrPaymentAccess       = errs.NewKind("payment access denied", errs.ErrForbidden)
	ErrBookingNotPayable   = errs.NewKind("booking is not awaiting payment", errs.ErrInvalidState)
	ErrOrderInProgress     = errs.NewKind("a payment order is already being created for this booking", errs.ErrConflict)
	ErrGatewayUnavailable  = errs.NewKind("payment gateway request failed", errs.ErrExternalService)
	ErrPaymentNotCaptured  = errs.NewKind("gateway has not captured this payment", errs.ErrInvalidState)
	ErrGatewayDataMismatch = errs.NewKind("gateway payment does not match the order", errs.ErrInvalidState)
)

const orderLockPrefix = "payment-order:"

// CreateOrderResult carries what a checkout client needs to open the gateway UI.
type CreateOrderResult struct {
	Payment *queries.PaymentView
	OrderID string
	Amount  int64
	KeyID   string
}

type PaymentSettings struct {
	Currency string
	KeyID    string
	LockTTL  time.Duration
}

type PaymentCommands interface {
	CreateOrder(ctx context.Context, customerID, bookingID uuid.UUID) (*CreateOrderResult, error)
	Verify(ctx context.Context, customerID uuid.UUID, req reqdto.VerifyPaymentRequest) (*queries.PaymentView, error)
	MarkFailed(ctx context.Context, customerID uuid.UUID, req reqdto.FailPaymentRequest) (*queries.PaymentView, error)
	Refund(ctx context.Context, paymentID uuid.UUID) (*queries.PaymentView, error)
}

type paymentCommandsImpl struct {
	uow      shared.UnitOfWork
	gateway  shared.PaymentGateway
	locker   shared.Locker
	clock    clock.Clock
	metrics  *metrics.Metrics
	settings PaymentSettings
	group    singleflight.Group
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	locker shared.Locker,
	clk clock.Clock,
	m *metrics.Metrics,
	settings PaymentSettings,
) PaymentCommands {
	settings.Currency = strings.ToUpper(settings.Currency)
	return &paymentCommandsImpl{
		uow:      uow,
		gateway:  gateway,
		locker:   locker,
		clock:    clk,
		metrics:  m,
		settings: settings,
	}
}

// CreateOrder opens (or reuses) the booking's payment and attaches a gateway
// order to it. Concurrent calls for the same booking collapse in-process via
// singleflight and across processes via the distributed lock. No database
// transaction is held while the gateway is called. A gateway failure is not
// an error: the pending payment comes back with an empty OrderID.
func (p *paymentCommandsImpl) CreateOrder(ctx context.Context, customerID, bookingID uuid.UUID) (*CreateOrderResult, error) {
	key := customerID.String() + ":" + bookingID.String()
	v, err, _ := p.group.Do(key, func() (any, error) {
		return p.createOrder(ctx, customerID, bookingID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CreateOrderResult), nil
}

func (p *paymentCommandsImpl) createOrder(ctx context.Context, customerID, bookingID uuid.UUID) (_ *CreateOrderResult, err error) {
	ctx, span := tracing.Start(ctx, "payment.CreateOrder")
	defer func() { tracing.End(span, err) }()

	release, err := p.locker.Acquire(ctx, orderLockPrefix+bookingID.String(), p.settings.LockTTL)
	if err != nil {
		if errors.Is(err, shared.ErrLockNotAcquired) {
			return nil, ErrOrderInProgress
		}
		return nil, errs.Wrap(err, "acquire payment order lock")
	}
	defer release()

	var (
		pay *payment.Payment
		bk  *booking.Booking
	)
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Bookings().FindByID(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if !found.IsOwnedBy(customerID) {
			return ErrBookingAccess
		}
		completed, err := tx.Payments().HasCompleted(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if completed {
			return payment.ErrAlreadyCompleted
		}
		if found.Status() != booking.StatusCreated {
			return ErrBookingNotPayable
		}

		open, err := tx.Payments().FindOpenByBooking(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if open == nil {
			open, err = payment.New(bookingID, customerID, found.FinalPrice(), p.settings.Currency, p.clock.Now())
			if err != nil {
				return err
			}
			if err := tx.Payments().Create(ctx, tx.DB(), open); err != nil {
				return err
			}
		}
		pay, bk = open, found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pay.GatewayOrderID() != nil {
		return p.orderResult(pay, bk), nil
	}

	order, err := p.gateway.CreateOrder(ctx, pay.Amount().Minor(), pay.Currency(), bk.Number().String())
	if err != nil {
		p.metrics.GatewayCall("create_order", "error")
		slog.Warn("gateway order creation failed, payment left pending",
			"booking_id", bookingID,
			"payment_id", pay.ID(),
			"error", err.Error(),
		)
		// The next call reuses the pending row and retries the gateway.
		return p.orderResult(pay, bk), nil
	}
	p.metrics.GatewayCall("create_order", "ok")

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Payments().FindByID(ctx, tx.DB(), pay.ID())
		if err != nil {
			return err
		}
		now := p.clock.Now()
		if err := current.AttachGatewayOrder(order.ID, now); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), current); err != nil {
			return err
		}
		pay = current
		return tx.Outbox().Append(ctx, tx.DB(), paymentEvent(current, shared.EventPaymentOrderCreated, now))
	})
	if err != nil {
		return nil, err
	}

	p.metrics.PaymentEvent("order_created")
	return p.orderResult(pay, bk), nil
}

// orderResult leaves OrderID empty while the payment has no gateway order.
func (p *paymentCommandsImpl) orderResult(pay *payment.Payment, bk *booking.Booking) *CreateOrderResult {
	var orderID string
	if id := pay.GatewayOrderID(); id != nil {
		orderID = *id
	}
	return &CreateOrderResult{
		Payment: toPaymentView(pay, bk.Number().String()),
		OrderID: orderID,
		Amount:  pay.Amount().Minor(),
		KeyID:   p.settings.KeyID,
	}
}

// Verify confirms a customer-reported payment. A payment that is already
// COMPLETED is returned unchanged. Otherwise the signature is checked, the
// gateway is asked to confirm the capture, and the payment, the booking
// advance and their events are committed together.
func (p *paymentCommandsImpl) Verify(ctx context.Context, customerID uuid.UUID, req reqdto.VerifyPaymentRequest) (_ *queries.PaymentView, err error) {
	ctx, span := tracing.Start(ctx, "payment.Verify")
	defer func() { tracing.End(span, err) }()

	var (
		pending *payment.Payment
		done    *queries.PaymentView
	)
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Payments().FindByGatewayOrderIDForUpdate(ctx, tx.DB(), req.GatewayOrderID)
		if err != nil {
			return err
		}
		if found.CustomerID() != customerID {
			return ErrPaymentAccess
		}
		if found.IsCompleted() {
			bk, err := tx.Bookings().FindByID(ctx, tx.DB(), found.BookingID())
			if err != nil {
				return err
			}
			done = toPaymentView(found, bk.Number().String())
			return nil
		}
		if !found.Status().IsOpen() {
			return payment.ErrPaymentNotOpen
		}
		pending = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if done != nil {
		return done, nil
	}

	if !p.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		p.metrics.PaymentEvent("signature_mismatch")
		return nil, payment.ErrSignatureMismatch
	}

	gp, err := p.gateway.FetchPayment(ctx, req.GatewayPaymentID)
	if err != nil {
		p.metrics.GatewayCall("fetch_payment", "error")
		return nil, errs.Mark(errs.Wrap(err, "fetch gateway payment"), ErrGatewayUnavailable)
	}
	p.metrics.GatewayCall("fetch_payment", "ok")
	if gp.OrderID != req.GatewayOrderID || gp.Amount != pending.Amount().Minor() {
		return nil, ErrGatewayDataMismatch
	}
	if !gp.Captured() {
		return nil, ErrPaymentNotCaptured
	}

	var view *queries.PaymentView
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Payments().FindByGatewayOrderIDForUpdate(ctx, tx.DB(), req.GatewayOrderID)
		if err != nil {
			return err
		}
		bk, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), current.BookingID())
		if err != nil {
			return err
		}
		if current.IsCompleted() {
			view = toPaymentView(current, bk.Number().String())
			return nil
		}

		now := p.clock.Now()
		if err := current.Complete(req.GatewayPaymentID, req.GatewaySignature, now); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), current); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, tx.DB(), paymentEvent(current, shared.EventPaymentCompleted, now)); err != nil {
			return err
		}

		from := bk.Status()
		if bk.MarkPaid(now) {
			if err := tx.Bookings().Update(ctx, tx.DB(), bk); err != nil {
				return err
			}
			if err := tx.Outbox().Append(ctx, tx.DB(), bookingEvent(bk, shared.EventBookingStatusChanged, now, map[string]any{
				"from":   from.String(),
				"to":     bk.Status().String(),
				"reason": "payment_completed",
			})); err != nil {
				return err
			}
		}
		view = toPaymentView(current, bk.Number().String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.metrics.PaymentEvent("completed")
	return view, nil
}

// MarkFailed records a failure the customer's checkout reported.
func (p *paymentCommandsImpl) MarkFailed(ctx context.Context, customerID uuid.UUID, req reqdto.FailPaymentRequest) (*queries.PaymentView, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "payment failed at gateway"
	}

	view, err := p.mutate(ctx, func(ctx context.Context, tx shared.Tx) (*payment.Payment, error) {
		found, err := tx.Payments().FindByGatewayOrderIDForUpdate(ctx, tx.DB(), req.GatewayOrderID)
		if err != nil {
			return nil, err
		}
		if found.CustomerID() != customerID {
			return nil, ErrPaymentAccess
		}
		return found, found.Fail(reason, p.clock.Now())
	}, shared.EventPaymentFailed)
	if err != nil {
		return nil, err
	}
	p.metrics.PaymentEvent("failed")
	return view, nil
}

// Refund only records the refund; the booking status is left alone.
func (p *paymentCommandsImpl) Refund(ctx context.Context, paymentID uuid.UUID) (*queries.PaymentView, error) {
	view, err := p.mutate(ctx, func(ctx context.Context, tx shared.Tx) (*payment.Payment, error) {
		found, err := tx.Payments().FindByID(ctx, tx.DB(), paymentID)
		if err != nil {
			return nil, err
		}
		return found, found.Refund(p.clock.Now())
	}, shared.EventPaymentRefunded)
	if err != nil {
		return nil, err
	}
	p.metrics.PaymentEvent("refunded")
	return view, nil
}

func (p *paymentCommandsImpl) mutate(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) (*payment.Payment, error), eventType string) (*queries.PaymentView, error) {
	var view *queries.PaymentView
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		pay, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, tx.DB(), pay); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, tx.DB(), paymentEvent(pay, eventType, pay.UpdatedAt())); err != nil {
			return err
		}
		bk, err := tx.Bookings().FindByID(ctx, tx.DB(), pay.BookingID())
		if err != nil {
			return err
		}
		view = toPaymentView(pay, bk.Number().String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func paymentEvent(pay *payment.Payment, eventType string, at time.Time) shared.Event {
	return shared.Event{
		AggregateType: shared.AggregatePayment,
		AggregateID:   pay.ID(),
		Type:          eventType,
		Payload: map[string]any{
			"bookingId":        pay.BookingID(),
			"customerId":       pay.CustomerID(),
			"amount":           pay.Amount().Minor(),
			"currency":         pay.Currency(),
			"status":           pay.Status().String(),
			"gatewayOrderId":   pay.GatewayOrderID(),
			"gatewayPaymentId": pay.GatewayPaymentID(),
			"failureReason":    pay.FailureReason(),
		},
		OccurredAt: at,
	}
}
