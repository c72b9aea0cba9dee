package commands

import (
	"context"
	"log/slog"
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/user"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/pkg/clock"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/metrics"
	"service-booking/internal/pkg/tracing"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingAccess      = errs.NewKind("booking access denied", errs.ErrForbidden)
	ErrCustomerInactive   = errs.NewKind("customer account is inactive", errs.ErrForbidden)
	ErrNotCustomer        = errs.NewKind("only customers can book services", errs.ErrInvalidRole)
	ErrEmployeeInactive   = errs.NewKind("employee account is inactive", errs.ErrInvalidState)
	ErrPackageUnavailable = errs.NewKind("service package is not available", errs.ErrInvalidState)
)

type BookingCommands interface {
	Create(ctx context.Context, customerID uuid.UUID, req reqdto.CreateBookingRequest) (*queries.BookingView, error)
	Assign(ctx context.Context, bookingID, employeeID uuid.UUID) (*queries.BookingView, error)
	UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role, status string) (*queries.BookingView, error)
	AddFeedback(ctx context.Context, bookingID, customerID uuid.UUID, req reqdto.FeedbackRequest) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	coupons  CouponRedeemer
	numbers  booking.NumberGenerator
	clock    clock.Clock
	metrics  *metrics.Metrics
	location *time.Location
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	coupons CouponRedeemer,
	numbers booking.NumberGenerator,
	clk clock.Clock,
	m *metrics.Metrics,
	loc *time.Location,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		coupons:  coupons,
		numbers:  numbers,
		clock:    clk,
		metrics:  m,
		location: loc,
	}
}

// Create inserts the booking and redeems its coupon in one transaction. The
// redemption runs under a savepoint: a rejected coupon is logged and rolled
// back while the booking proceeds at full price.
func (b *bookingCommandsImpl) Create(ctx context.Context, customerID uuid.UUID, req reqdto.CreateBookingRequest) (_ *queries.BookingView, err error) {
	ctx, span := tracing.Start(ctx, "booking.Create")
	defer func() { tracing.End(span, err) }()

	scheduledAt, err := queries.ParseSchedule(req.ServiceDate, req.ServiceTime, b.location)
	if err != nil {
		return nil, err
	}
	location, err := req.ToLocation()
	if err != nil {
		return nil, err
	}

	var created *booking.Booking
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		customer, err := tx.Reads().UserByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer.Role != user.RoleCustomer {
			return ErrNotCustomer
		}
		if !customer.IsActive {
			return ErrCustomerInactive
		}

		pkg, err := tx.Reads().PackageByID(ctx, req.PackageID)
		if err != nil {
			return err
		}
		if !pkg.IsActive {
			return ErrPackageUnavailable
		}

		number, err := b.numbers.Next()
		if err != nil {
			return err
		}

		now := b.clock.Now()
		bk, err := booking.New(booking.NewParams{
			Number:   number,
			Customer: booking.Party{ID: customer.ID, Name: customer.Name, Mobile: customer.Mobile},
			Offering: booking.Offering{
				ServiceID:   pkg.ServiceID,
				ServiceName: pkg.ServiceName,
				PackageID:   pkg.ID,
				PackageName: pkg.Name,
				Price:       pkg.Price,
			},
			ScheduledAt:  scheduledAt,
			Location:     location,
			CustomerNote: req.CustomerNote,
		}, now)
		if err != nil {
			return err
		}

		if code := req.GetCouponCode(); code != nil {
			b.applyCoupon(ctx, tx, bk, *code, now)
		}

		if err := tx.Bookings().Create(ctx, tx.DB(), bk); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, tx.DB(), bookingEvent(bk, shared.EventBookingCreated, now, map[string]any{
			"bookingNumber": bk.Number().String(),
			"customerId":    bk.Customer().ID,
			"packageId":     bk.Offering().PackageID,
			"finalPrice":    bk.FinalPrice().Minor(),
			"couponCode":    bk.CouponCode(),
		})); err != nil {
			return err
		}
		created = bk
		return nil
	})
	if err != nil {
		return nil, err
	}

	b.metrics.BookingCreated()
	return toBookingView(created, b.location), nil
}

func (b *bookingCommandsImpl) applyCoupon(ctx context.Context, tx shared.Tx, bk *booking.Booking, code string, now time.Time) {
	err := tx.Savepoint(ctx, func(ctx context.Context, sp shared.Tx) error {
		redemption, err := b.coupons.Redeem(ctx, sp, code, bk.OriginalPrice())
		if err != nil {
			return err
		}
		return bk.ApplyCoupon(redemption.Code, redemption.Discount, now)
	})
	if err != nil {
		slog.Warn("coupon not applied, booking continues without discount",
			"booking_number", bk.Number().String(),
			"coupon_code", code,
			"kind", errs.Kind(err),
			"error", err.Error(),
		)
	}
}

// Assign snapshots the employee onto the booking. Only active users with the
// employee role qualify, and a CREATED booking must be paid first.
func (b *bookingCommandsImpl) Assign(ctx context.Context, bookingID, employeeID uuid.UUID) (*queries.BookingView, error) {
	view, err := b.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, bk *booking.Booking, now time.Time) (*shared.Event, error) {
		employee, err := tx.Reads().UserByID(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if !employee.IsActive {
			return nil, ErrEmployeeInactive
		}
		paid := false
		if bk.Status() == booking.StatusCreated {
			if paid, err = tx.Payments().HasCompleted(ctx, tx.DB(), bk.ID()); err != nil {
				return nil, err
			}
		}
		party := booking.Party{ID: employee.ID, Name: employee.Name, Mobile: employee.Mobile}
		if err := bk.Assign(party, employee.Role, paid, now); err != nil {
			return nil, err
		}
		ev := bookingEvent(bk, shared.EventBookingAssigned, now, map[string]any{
			"employeeId":   employee.ID,
			"employeeName": employee.Name,
		})
		return &ev, nil
	})
	if err != nil {
		return nil, err
	}
	b.metrics.BookingTransition(booking.StatusAssigned.String())
	return view, nil
}

// UpdateStatus is for admins and the assigned employee.
func (b *bookingCommandsImpl) UpdateStatus(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role, status string) (*queries.BookingView, error) {
	next, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	view, err := b.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, bk *booking.Booking, now time.Time) (*shared.Event, error) {
		switch actorRole {
		case user.RoleAdmin:
		case user.RoleEmployee:
			if bk.Employee() == nil || bk.Employee().ID != actorID {
				return nil, ErrBookingAccess
			}
		default:
			return nil, ErrBookingAccess
		}
		return transition(bk, next, now)
	})
	if err != nil {
		return nil, err
	}
	b.metrics.BookingTransition(next.String())
	return view, nil
}

// Cancel is for the owning customer and admins. A redeemed coupon stays spent.
func (b *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role) (*queries.BookingView, error) {
	view, err := b.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, bk *booking.Booking, now time.Time) (*shared.Event, error) {
		if actorRole != user.RoleAdmin && !(actorRole == user.RoleCustomer && bk.IsOwnedBy(actorID)) {
			return nil, ErrBookingAccess
		}
		return transition(bk, booking.StatusCancelled, now)
	})
	if err != nil {
		return nil, err
	}
	b.metrics.BookingTransition(booking.StatusCancelled.String())
	return view, nil
}

func (b *bookingCommandsImpl) AddFeedback(ctx context.Context, bookingID, customerID uuid.UUID, req reqdto.FeedbackRequest) (*queries.BookingView, error) {
	fb, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	return b.mutate(ctx, bookingID, func(ctx context.Context, tx shared.Tx, bk *booking.Booking, now time.Time) (*shared.Event, error) {
		if !bk.IsOwnedBy(customerID) {
			return nil, ErrBookingAccess
		}
		if err := bk.AddFeedback(fb, now); err != nil {
			return nil, err
		}
		ev := bookingEvent(bk, shared.EventBookingFeedback, now, map[string]any{
			"rating": fb.Rating(),
		})
		return &ev, nil
	})
}

func transition(bk *booking.Booking, next booking.Status, now time.Time) (*shared.Event, error) {
	from := bk.Status()
	if err := bk.TransitionTo(next, now); err != nil {
		return nil, err
	}
	ev := bookingEvent(bk, shared.EventBookingStatusChanged, now, map[string]any{
		"from": from.String(),
		"to":   next.String(),
	})
	return &ev, nil
}

type bookingMutation func(ctx context.Context, tx shared.Tx, bk *booking.Booking, now time.Time) (*shared.Event, error)

// mutate loads the booking under a row lock, applies fn, then persists the
// booking together with the event fn returns.
func (b *bookingCommandsImpl) mutate(ctx context.Context, bookingID uuid.UUID, fn bookingMutation) (*queries.BookingView, error) {
	var updated *booking.Booking
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		bk, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		ev, err := fn(ctx, tx, bk, b.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), bk); err != nil {
			return err
		}
		if ev != nil {
			if err := tx.Outbox().Append(ctx, tx.DB(), *ev); err != nil {
				return err
			}
		}
		updated = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBookingView(updated, b.location), nil
}

func bookingEvent(bk *booking.Booking, eventType string, at time.Time, payload map[string]any) shared.Event {
	payload["status"] = bk.Status().String()
	return shared.Event{
		AggregateType: shared.AggregateBooking,
		AggregateID:   bk.ID(),
		Type:          eventType,
		Payload:       payload,
		OccurredAt:    at,
	}
}
