package queries

import (
	"context"
	"strings"

	"service-booking/internal/domain/payment"
	"service-booking/internal/domain/user"
	"service-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPaymentAccess = errs.NewKind("payment access denied", errs.ErrForbidden)

type PaymentReadStore interface {
	FindLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, after *Keyset, limit int32) ([]*PaymentView, error)
	ListByStatus(ctx context.Context, status payment.Status, after *Keyset, limit int32) ([]*PaymentView, error)
	TotalRevenue(ctx context.Context, currency string) (*RevenueView, error)
}

type PaymentQueries interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*PaymentView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error)
	ListByStatus(ctx context.Context, status string, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error)
	TotalRevenue(ctx context.Context) (*RevenueView, error)
}

type paymentQueriesImpl struct {
	store    PaymentReadStore
	currency string
}

func NewPaymentQueries(store PaymentReadStore, currency string) PaymentQueries {
	return &paymentQueriesImpl{store: store, currency: strings.ToUpper(currency)}
}

// GetByBookingID returns the latest attempt. Only the paying customer and
// admins may read it.
func (q *paymentQueriesImpl) GetByBookingID(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*PaymentView, error) {
	v, err := q.store.FindLatestByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorRole != user.RoleAdmin && v.CustomerID != actorID {
		return nil, ErrPaymentAccess
	}
	return v, nil
}

func (q *paymentQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error) {
	return q.page(cursor, limit, func(after *Keyset, n int32) ([]*PaymentView, error) {
		return q.store.ListByCustomer(ctx, customerID, after, n)
	})
}

func (q *paymentQueriesImpl) ListByStatus(ctx context.Context, status string, cursor *Cursor, limit int) ([]*PaymentView, *Cursor, error) {
	st, err := payment.ParseStatus(status)
	if err != nil {
		return nil, nil, err
	}
	return q.page(cursor, limit, func(after *Keyset, n int32) ([]*PaymentView, error) {
		return q.store.ListByStatus(ctx, st, after, n)
	})
}

func (q *paymentQueriesImpl) TotalRevenue(ctx context.Context) (*RevenueView, error) {
	return q.store.TotalRevenue(ctx, q.currency)
}

func (q *paymentQueriesImpl) page(cursor *Cursor, limit int, fetch func(after *Keyset, n int32) ([]*PaymentView, error)) ([]*PaymentView, *Cursor, error) {
	after, err := keysetFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := fetch(after, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
