//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/payment"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/usecase/commands"
	"service-booking/internal/usecase/shared"
	"service-booking/tests/common/builder"
	sharedmock "service-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentHarness struct {
	*txFixture
	gateway *sharedmock.MockPaymentGateway
	locker  *sharedmock.MockLocker
	cmd     commands.PaymentCommands
	bk      *booking.Booking
	pb      *builder.PaymentBuilder
}

func newPaymentHarness(t *testing.T) *paymentHarness {
	f := newTxFixture(t)
	bk := builder.NewBookingBuilder().MustBuildInStatus(booking.StatusCreated)
	pb := builder.NewPaymentBuilder().With(func(b *builder.PaymentBuilder) {
		b.BookingID = bk.ID()
		b.CustomerID = bk.Customer().ID
	})
	gateway := sharedmock.NewMockPaymentGateway(f.ctrl)
	locker := sharedmock.NewMockLocker(f.ctrl)
	cmd := commands.NewPaymentCommands(f.uow, gateway, locker, clock.NewMockClock(pb.Now), metrics.New(), commands.PaymentSettings{
		Currency: "inr",
		KeyID:    "rzp_test_key",
		LockTTL:  10 * time.Second,
	})
	return &paymentHarness{txFixture: f, gateway: gateway, locker: locker, cmd: cmd, bk: bk, pb: pb}
}

// expectLock grants the order lock and reports whether it was released.
func (h *paymentHarness) expectLock() *bool {
	released := false
	h.locker.EXPECT().Acquire(gomock.Any(), "payment-order:"+h.bk.ID().String(), 10*time.Second).
		Return(func() { released = true }, nil)
	return &released
}

func TestPaymentCommands_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a payment and a gateway order", func(t *testing.T) {
		h := newPaymentHarness(t)
		released := h.expectLock()

		var created *payment.Payment
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
		h.payments.EXPECT().HasCompleted(gomock.Any(), nil, h.bk.ID()).Return(false, nil)
		h.payments.EXPECT().FindOpenByBooking(gomock.Any(), nil, h.bk.ID()).Return(nil, nil)
		h.payments.EXPECT().Create(gomock.Any(), nil, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, p *payment.Payment) error {
				created = p
				return nil
			})
		h.gateway.EXPECT().CreateOrder(gomock.Any(), int64(50000), "INR", "BKGTEST0001").
			Return(&shared.GatewayOrder{ID: "order_NEW", Amount: 50000, Currency: "INR"}, nil)
		h.payments.EXPECT().FindByID(gomock.Any(), nil, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, id uuid.UUID) (*payment.Payment, error) {
				require.Equal(t, created.ID(), id)
				return created, nil
			})
		h.payments.EXPECT().Update(gomock.Any(), nil, gomock.Any()).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("payment.order_created")).Return(nil)

		got, err := h.cmd.CreateOrder(ctx, h.bk.Customer().ID, h.bk.ID())
		require.NoError(t, err)
		assert.Equal(t, "order_NEW", got.OrderID)
		assert.Equal(t, int64(50000), got.Amount)
		assert.Equal(t, "rzp_test_key", got.KeyID)
		assert.Equal(t, "PENDING", got.Payment.Status)
		assert.Equal(t, "INR", got.Payment.Currency)
		assert.Equal(t, "BKGTEST0001", got.Payment.BookingNumber)
		assert.True(t, *released)
	})

	t.Run("reuses the open order without calling the gateway", func(t *testing.T) {
		h := newPaymentHarness(t)
		h.expectLock()
		open := h.pb.BuildReconstructed()
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
		h.payments.EXPECT().HasCompleted(gomock.Any(), nil, h.bk.ID()).Return(false, nil)
		h.payments.EXPECT().FindOpenByBooking(gomock.Any(), nil, h.bk.ID()).Return(open, nil)

		got, err := h.cmd.CreateOrder(ctx, h.bk.Customer().ID, h.bk.ID())
		require.NoError(t, err)
		assert.Equal(t, "order_TEST0001", got.OrderID)
		assert.Equal(t, open.ID(), got.Payment.ID)
	})

	t.Run("gateway failure leaves the payment pending", func(t *testing.T) {
		h := newPaymentHarness(t)
		released := h.expectLock()
		open := h.pb.WithoutGatewayOrder().BuildReconstructed()
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
		h.payments.EXPECT().HasCompleted(gomock.Any(), nil, h.bk.ID()).Return(false, nil)
		h.payments.EXPECT().FindOpenByBooking(gomock.Any(), nil, h.bk.ID()).Return(open, nil)
		h.gateway.EXPECT().CreateOrder(gomock.Any(), int64(40000), "INR", "BKGTEST0001").
			Return(nil, errors.New("connection reset"))

		got, err := h.cmd.CreateOrder(ctx, h.bk.Customer().ID, h.bk.ID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.OrderID)
		assert.Equal(t, open.ID(), got.Payment.ID)
		assert.Equal(t, "PENDING", got.Payment.Status)
		assert.Nil(t, got.Payment.GatewayOrderID)
		assert.Equal(t, int64(40000), got.Amount)
		assert.Equal(t, payment.StatusPending, open.Status())
		assert.True(t, *released)
	})

	t.Run("lock held elsewhere", func(t *testing.T) {
		h := newPaymentHarness(t)
		h.locker.EXPECT().Acquire(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, shared.ErrLockNotAcquired)

		_, err := h.cmd.CreateOrder(ctx, h.bk.Customer().ID, h.bk.ID())
		require.ErrorIs(t, err, commands.ErrOrderInProgress)
		assert.True(t, errs.Is(err, errs.ErrConflict))
	})

	t.Run("booking preconditions", func(t *testing.T) {
		cases := []struct {
			name   string
			setup  func(t *testing.T, h *paymentHarness) uuid.UUID
			errIs  error
			isKind error
		}{
			{
				name: "not the owner",
				setup: func(t *testing.T, h *paymentHarness) uuid.UUID {
					h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
					return uuid.New()
				},
				errIs:  commands.ErrBookingAccess,
				isKind: errs.ErrForbidden,
			},
			{
				name: "already paid",
				setup: func(t *testing.T, h *paymentHarness) uuid.UUID {
					h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
					h.payments.EXPECT().HasCompleted(gomock.Any(), nil, h.bk.ID()).Return(true, nil)
					return h.bk.Customer().ID
				},
				errIs:  payment.ErrAlreadyCompleted,
				isKind: errs.ErrAlreadyCompleted,
			},
			{
				name: "cancelled booking",
				setup: func(t *testing.T, h *paymentHarness) uuid.UUID {
					require.NoError(t, h.bk.Cancel(h.pb.Now))
					h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
					h.payments.EXPECT().HasCompleted(gomock.Any(), nil, h.bk.ID()).Return(false, nil)
					return h.bk.Customer().ID
				},
				errIs:  commands.ErrBookingNotPayable,
				isKind: errs.ErrInvalidState,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				h := newPaymentHarness(t)
				released := h.expectLock()
				customerID := tc.setup(t, h)

				_, err := h.cmd.CreateOrder(ctx, customerID, h.bk.ID())
				require.ErrorIs(t, err, tc.errIs)
				assert.True(t, errs.Is(err, tc.isKind))
				assert.True(t, *released)
			})
		}
	})
}

func TestPaymentCommands_Verify(t *testing.T) {
	ctx := context.Background()
	const paymentID = "pay_TEST0001"

	verifyReq := func(h *paymentHarness) reqdto.VerifyPaymentRequest {
		return reqdto.VerifyPaymentRequest{
			GatewayOrderID:   *h.pb.GatewayOrderID,
			GatewayPaymentID: paymentID,
			GatewaySignature: h.pb.Signature(paymentID),
		}
	}
	captured := func(h *paymentHarness) *shared.GatewayPayment {
		return &shared.GatewayPayment{ID: paymentID, OrderID: *h.pb.GatewayOrderID, Status: "captured", Amount: h.pb.Amount}
	}

	t.Run("completes payment and advances booking", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.BuildReconstructed()
		req := verifyReq(h)

		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(pay, nil).Times(2)
		h.gateway.EXPECT().VerifySignature(req.GatewayOrderID, paymentID, req.GatewaySignature).Return(true)
		h.gateway.EXPECT().FetchPayment(gomock.Any(), paymentID).Return(captured(h), nil)
		h.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
		h.payments.EXPECT().Update(gomock.Any(), nil, pay).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("payment.completed")).Return(nil)
		h.bookings.EXPECT().Update(gomock.Any(), nil, h.bk).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("booking.status_changed")).Return(nil)

		got, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", got.Status)
		require.NotNil(t, got.GatewayPaymentID)
		assert.Equal(t, paymentID, *got.GatewayPaymentID)
		require.NotNil(t, got.PaidAt)
		assert.Equal(t, booking.StatusAssigned, h.bk.Status())
	})

	t.Run("booking already moved on is left alone", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.BuildReconstructed()
		req := verifyReq(h)
		require.NoError(t, h.bk.Cancel(h.pb.Now))

		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(pay, nil).Times(2)
		h.gateway.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
		h.gateway.EXPECT().FetchPayment(gomock.Any(), paymentID).Return(captured(h), nil)
		h.bookings.EXPECT().FindByIDForUpdate(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)
		h.payments.EXPECT().Update(gomock.Any(), nil, pay).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("payment.completed")).Return(nil)

		got, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", got.Status)
		assert.Equal(t, booking.StatusCancelled, h.bk.Status())
	})

	t.Run("completed payment is returned unchanged", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.WithStatus(payment.StatusCompleted).BuildReconstructed()
		req := verifyReq(h)

		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(pay, nil)
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)

		got, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", got.Status)
		assert.Equal(t, pay.ID(), got.ID)
	})

	t.Run("signature mismatch keeps the payment open", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.BuildReconstructed()
		req := verifyReq(h)
		req.GatewaySignature = "0000000000000000000000000000000000000000000000000000000000000000"

		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(pay, nil)
		h.gateway.EXPECT().VerifySignature(req.GatewayOrderID, paymentID, req.GatewaySignature).Return(false)

		_, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
		require.ErrorIs(t, err, payment.ErrSignatureMismatch)
		assert.True(t, errs.Is(err, errs.ErrSignatureMismatch))
		assert.Equal(t, payment.StatusPending, pay.Status())
	})

	t.Run("gateway confirmation problems", func(t *testing.T) {
		cases := []struct {
			name   string
			fetch  func(h *paymentHarness) (*shared.GatewayPayment, error)
			errIs  error
			isKind error
		}{
			{
				name: "gateway unreachable",
				fetch: func(*paymentHarness) (*shared.GatewayPayment, error) {
					return nil, errors.New("timeout")
				},
				errIs:  commands.ErrGatewayUnavailable,
				isKind: errs.ErrExternalService,
			},
			{
				name: "amount differs",
				fetch: func(h *paymentHarness) (*shared.GatewayPayment, error) {
					gp := captured(h)
					gp.Amount = 1
					return gp, nil
				},
				errIs:  commands.ErrGatewayDataMismatch,
				isKind: errs.ErrInvalidState,
			},
			{
				name: "order differs",
				fetch: func(h *paymentHarness) (*shared.GatewayPayment, error) {
					gp := captured(h)
					gp.OrderID = "order_OTHER"
					return gp, nil
				},
				errIs:  commands.ErrGatewayDataMismatch,
				isKind: errs.ErrInvalidState,
			},
			{
				name: "not captured yet",
				fetch: func(h *paymentHarness) (*shared.GatewayPayment, error) {
					gp := captured(h)
					gp.Status = "created"
					return gp, nil
				},
				errIs:  commands.ErrPaymentNotCaptured,
				isKind: errs.ErrInvalidState,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				h := newPaymentHarness(t)
				pay := h.pb.BuildReconstructed()
				req := verifyReq(h)

				h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(pay, nil)
				h.gateway.EXPECT().VerifySignature(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
				h.gateway.EXPECT().FetchPayment(gomock.Any(), paymentID).Return(tc.fetch(h))

				_, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
				require.ErrorIs(t, err, tc.errIs)
				assert.True(t, errs.Is(err, tc.isKind))
				assert.Equal(t, payment.StatusPending, pay.Status())
			})
		}
	})

	t.Run("another customer's order", func(t *testing.T) {
		h := newPaymentHarness(t)
		req := verifyReq(h)
		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).Return(h.pb.BuildReconstructed(), nil)

		_, err := h.cmd.Verify(ctx, uuid.New(), req)
		require.ErrorIs(t, err, commands.ErrPaymentAccess)
	})

	t.Run("failed payment cannot be verified", func(t *testing.T) {
		h := newPaymentHarness(t)
		req := verifyReq(h)
		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, req.GatewayOrderID).
			Return(h.pb.WithStatus(payment.StatusFailed).BuildReconstructed(), nil)

		_, err := h.cmd.Verify(ctx, h.bk.Customer().ID, req)
		require.ErrorIs(t, err, payment.ErrPaymentNotOpen)
	})
}

func TestPaymentCommands_MarkFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("records default reason", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.BuildReconstructed()
		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, "order_TEST0001").Return(pay, nil)
		h.payments.EXPECT().Update(gomock.Any(), nil, pay).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("payment.failed")).Return(nil)
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)

		got, err := h.cmd.MarkFailed(ctx, h.bk.Customer().ID, reqdto.FailPaymentRequest{GatewayOrderID: "order_TEST0001", Reason: "  "})
		require.NoError(t, err)
		assert.Equal(t, "FAILED", got.Status)
		require.NotNil(t, got.FailureReason)
		assert.Equal(t, "payment failed at gateway", *got.FailureReason)
	})

	t.Run("completed payment cannot fail", func(t *testing.T) {
		h := newPaymentHarness(t)
		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, "order_TEST0001").
			Return(h.pb.WithStatus(payment.StatusCompleted).BuildReconstructed(), nil)

		_, err := h.cmd.MarkFailed(ctx, h.bk.Customer().ID, reqdto.FailPaymentRequest{GatewayOrderID: "order_TEST0001"})
		require.ErrorIs(t, err, payment.ErrPaymentNotOpen)
	})

	t.Run("another customer's order", func(t *testing.T) {
		h := newPaymentHarness(t)
		h.payments.EXPECT().FindByGatewayOrderIDForUpdate(gomock.Any(), nil, "order_TEST0001").Return(h.pb.BuildReconstructed(), nil)

		_, err := h.cmd.MarkFailed(ctx, uuid.New(), reqdto.FailPaymentRequest{GatewayOrderID: "order_TEST0001"})
		require.ErrorIs(t, err, commands.ErrPaymentAccess)
	})
}

func TestPaymentCommands_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("completed payment is refunded, booking untouched", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.WithStatus(payment.StatusCompleted).BuildReconstructed()
		h.payments.EXPECT().FindByID(gomock.Any(), nil, pay.ID()).Return(pay, nil)
		h.payments.EXPECT().Update(gomock.Any(), nil, pay).Return(nil)
		h.outbox.EXPECT().Append(gomock.Any(), nil, eventType("payment.refunded")).Return(nil)
		h.bookings.EXPECT().FindByID(gomock.Any(), nil, h.bk.ID()).Return(h.bk, nil)

		got, err := h.cmd.Refund(ctx, pay.ID())
		require.NoError(t, err)
		assert.Equal(t, "REFUNDED", got.Status)
		assert.Equal(t, booking.StatusCreated, h.bk.Status())
	})

	t.Run("pending payment is not refundable", func(t *testing.T) {
		h := newPaymentHarness(t)
		pay := h.pb.BuildReconstructed()
		h.payments.EXPECT().FindByID(gomock.Any(), nil, pay.ID()).Return(pay, nil)

		_, err := h.cmd.Refund(ctx, pay.ID())
		require.ErrorIs(t, err, payment.ErrNotRefundable)
	})

	t.Run("unknown payment", func(t *testing.T) {
		h := newPaymentHarness(t)
		id := uuid.New()
		h.payments.EXPECT().FindByID(gomock.Any(), nil, id).Return(nil, payment.ErrPaymentNotFound)

		_, err := h.cmd.Refund(ctx, id)
		require.ErrorIs(t, err, payment.ErrPaymentNotFound)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}
