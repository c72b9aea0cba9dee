package queries

import (
	"context"
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/user"
	"service-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingAccess = errs.NewKind("booking access denied", errs.ErrForbidden)

// BookingListFilter narrows a listing; nil fields are not applied.
type BookingListFilter struct {
	CustomerID *uuid.UUID
	EmployeeID *uuid.UUID
	Status     *booking.Status
	After      *Keyset
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, filter BookingListFilter, limit int32) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*BookingView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	ListAll(ctx context.Context, status string, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	loc   *time.Location
}

func NewBookingQueries(store BookingReadStore, loc *time.Location) BookingQueries {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingQueriesImpl{store: store, loc: loc}
}

// GetByID lets admins read any booking, customers their own and employees
// the ones assigned to them.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole user.Role) (*BookingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case user.RoleAdmin:
	case user.RoleCustomer:
		if v.CustomerID != actorID {
			return nil, ErrBookingAccess
		}
	case user.RoleEmployee:
		if v.EmployeeID == nil || *v.EmployeeID != actorID {
			return nil, ErrBookingAccess
		}
	default:
		return nil, ErrBookingAccess
	}
	return q.present(v), nil
}

func (q *bookingQueriesImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	return q.list(ctx, BookingListFilter{CustomerID: &customerID}, cursor, limit)
}

func (q *bookingQueriesImpl) ListByEmployee(ctx context.Context, employeeID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	return q.list(ctx, BookingListFilter{EmployeeID: &employeeID}, cursor, limit)
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, status string, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	var filter BookingListFilter
	if status != "" {
		st, err := booking.ParseStatus(status)
		if err != nil {
			return nil, nil, err
		}
		filter.Status = &st
	}
	return q.list(ctx, filter, cursor, limit)
}

func (q *bookingQueriesImpl) list(ctx context.Context, filter BookingListFilter, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	after, err := keysetFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	filter.After = after

	limit = ValidateLimit(limit)
	rows, err := q.store.List(ctx, filter, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	for _, v := range rows {
		q.present(v)
	}
	return rows, next, nil
}

func (q *bookingQueriesImpl) present(v *BookingView) *BookingView {
	v.ServiceDate, v.ServiceTime = SplitSchedule(v.ScheduledAt, q.loc)
	return v
}
