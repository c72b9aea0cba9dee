//go:build unit

package queries_test

import (
	"context"
	"testing"

	"service-booking/internal/domain/payment"
	"service-booking/internal/domain/user"
	"service-booking/internal/usecase/queries"
	"service-booking/tests/common/builder"
	queriesmock "service-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPaymentQueries(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*queriesmock.MockPaymentReadStore, queries.PaymentQueries) {
		store := queriesmock.NewMockPaymentReadStore(gomock.NewController(t))
		return store, queries.NewPaymentQueries(store, "inr")
	}

	t.Run("latest payment for the paying customer", func(t *testing.T) {
		store, q := setup(t)
		view := builder.NewPaymentBuilder().BuildView()
		store.EXPECT().FindLatestByBooking(gomock.Any(), view.BookingID).Return(view, nil).Times(3)

		got, err := q.GetByBookingID(ctx, view.BookingID, view.CustomerID, user.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, view, got)

		_, err = q.GetByBookingID(ctx, view.BookingID, uuid.New(), user.RoleAdmin)
		require.NoError(t, err)

		_, err = q.GetByBookingID(ctx, view.BookingID, uuid.New(), user.RoleCustomer)
		require.ErrorIs(t, err, queries.ErrPaymentAccess)
	})

	t.Run("status listing", func(t *testing.T) {
		store, q := setup(t)
		rows := []*queries.PaymentView{builder.NewPaymentBuilder().BuildView(), builder.NewPaymentBuilder().BuildView()}
		store.EXPECT().ListByStatus(gomock.Any(), payment.StatusPending, nil, int32(2)).Return(rows, nil)

		got, next, err := q.ListByStatus(ctx, "pending", nil, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		require.NotNil(t, next)
		assert.NotEmpty(t, next.After)

		_, _, err = q.ListByStatus(ctx, "SETTLED", nil, 1)
		require.ErrorIs(t, err, payment.ErrUnknownStatus)
	})

	t.Run("customer listing", func(t *testing.T) {
		store, q := setup(t)
		customerID := uuid.New()
		store.EXPECT().ListByCustomer(gomock.Any(), customerID, nil, int32(queries.MaxListLimit+1)).Return(nil, nil)

		got, next, err := q.ListByCustomer(ctx, customerID, nil, 500)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Nil(t, next)
	})

	t.Run("revenue uses configured currency", func(t *testing.T) {
		store, q := setup(t)
		want := &queries.RevenueView{Currency: "INR", Total: 120000, Count: 3}
		store.EXPECT().TotalRevenue(gomock.Any(), "INR").Return(want, nil)

		got, err := q.TotalRevenue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
