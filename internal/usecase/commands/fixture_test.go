//go:build unit

package commands_test

import (
	"context"
	"testing"

	"service-booking/internal/infra/db"
	"service-booking/internal/usecase/shared"
	sharedmock "service-booking/tests/mock/shared"

	"go.uber.org/mock/gomock"
)

// txFixture wires a mocked unit of work whose transactions run fn inline
// against mocked repositories.
type txFixture struct {
	ctrl     *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	bookings *sharedmock.MockBookingRepository
	coupons  *sharedmock.MockCouponRepository
	payments *sharedmock.MockPaymentRepository
	users    *sharedmock.MockUserRepository
	outbox   *sharedmock.MockOutboxRepository
	reads    *sharedmock.MockCommandReads
}

func newTxFixture(t *testing.T) *txFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &txFixture{
		ctrl:     ctrl,
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		bookings: sharedmock.NewMockBookingRepository(ctrl),
		coupons:  sharedmock.NewMockCouponRepository(ctrl),
		payments: sharedmock.NewMockPaymentRepository(ctrl),
		users:    sharedmock.NewMockUserRepository(ctrl),
		outbox:   sharedmock.NewMockOutboxRepository(ctrl),
		reads:    sharedmock.NewMockCommandReads(ctrl),
	}

	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.uow.EXPECT().WithDB(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, db.DBTX) error) error {
			return fn(ctx, nil)
		}).AnyTimes()
	f.tx.EXPECT().Savepoint(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()

	f.tx.EXPECT().DB().Return(nil).AnyTimes()
	f.tx.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.tx.EXPECT().Coupons().Return(f.coupons).AnyTimes()
	f.tx.EXPECT().Payments().Return(f.payments).AnyTimes()
	f.tx.EXPECT().Users().Return(f.users).AnyTimes()
	f.tx.EXPECT().Outbox().Return(f.outbox).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()
	return f
}

// eventType matches an outbox event by its type.
type eventType string

func (e eventType) Matches(x any) bool {
	ev, ok := x.(shared.Event)
	return ok && ev.Type == string(e)
}

func (e eventType) String() string { return "event of type " + string(e) }
