package booking

import (
	"time"

	"service-booking/internal/domain/money"
	"service-booking/internal/domain/user"
	"service-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound      = errs.NewKind("booking not found", errs.ErrNotFound)
	ErrIllegalTransition    = errs.NewKind("booking status transition not allowed", errs.ErrInvalidState)
	ErrFeedbackNotAllowed   = errs.NewKind("feedback is only accepted for completed bookings", errs.ErrInvalidState)
	ErrCouponAlreadyApplied = errs.NewKind("a coupon is already applied to this booking", errs.ErrInvalidState)
	ErrNotAssignable        = errs.NewKind("booking cannot be assigned in its current status", errs.ErrInvalidState)
	ErrAwaitingPayment      = errs.NewKind("booking is awaiting payment", errs.ErrInvalidState)
	ErrNotEmployee          = errs.NewKind("assignee does not have the employee role", errs.ErrInvalidRole)
	ErrScheduleRequired     = errs.NewKind("service date and time are required", errs.ErrValidationFailed)
)

// Booking is a historical snapshot: display fields are copied at write time
// and never re-synced. finalPrice always equals originalPrice - discount.
type Booking struct {
	id            uuid.UUID
	number        Number
	customer      Party
	employee      *Party
	offering      Offering
	scheduledAt   time.Time
	location      Location
	customerNote  string
	originalPrice money.Money
	discount      money.Money
	finalPrice    money.Money
	couponCode    *string
	status        Status
	feedback      *Feedback
	createdAt     time.Time
	updatedAt     time.Time
}

type NewParams struct {
	Number       Number
	Customer     Party
	Offering     Offering
	ScheduledAt  time.Time
	Location     Location
	CustomerNote string
}

func New(p NewParams, now time.Time) (*Booking, error) {
	if p.Customer.ID == uuid.Nil {
		return nil, ErrCustomerRequired
	}
	if p.Offering.PackageID == uuid.Nil {
		return nil, ErrPackageRequired
	}
	if p.ScheduledAt.IsZero() {
		return nil, ErrScheduleRequired
	}
	if p.Location.Address == "" {
		return nil, ErrAddressRequired
	}
	if p.Number == "" {
		return nil, ErrInvalidNumberFormat
	}

	return &Booking{
		id:            uuid.New(),
		number:        p.Number,
		customer:      p.Customer,
		offering:      p.Offering,
		scheduledAt:   p.ScheduledAt,
		location:      p.Location,
		customerNote:  p.CustomerNote,
		originalPrice: p.Offering.Price,
		discount:      money.Zero(),
		finalPrice:    p.Offering.Price,
		status:        StatusCreated,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type ReconstructParams struct {
	ID            uuid.UUID
	Number        string
	Customer      Party
	Employee      *Party
	Offering      Offering
	ScheduledAt   time.Time
	Location      Location
	CustomerNote  string
	OriginalPrice int64
	Discount      int64
	FinalPrice    int64
	CouponCode    *string
	Status        string
	Rating        *int
	Feedback      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(p ReconstructParams) *Booking {
	b := &Booking{
		id:            p.ID,
		number:        Number(p.Number),
		customer:      p.Customer,
		employee:      p.Employee,
		offering:      p.Offering,
		scheduledAt:   p.ScheduledAt,
		location:      p.Location,
		customerNote:  p.CustomerNote,
		originalPrice: money.FromMinor(p.OriginalPrice),
		discount:      money.FromMinor(p.Discount),
		finalPrice:    money.FromMinor(p.FinalPrice),
		couponCode:    p.CouponCode,
		status:        Status(p.Status),
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
	if p.Rating != nil {
		fb := Feedback{rating: *p.Rating}
		if p.Feedback != nil {
			fb.text = *p.Feedback
		}
		b.feedback = &fb
	}
	return b
}

// ApplyCoupon attaches a redeemed coupon once. A discount larger than the
// original price is clamped so the final price never goes negative.
func (b *Booking) ApplyCoupon(code string, discount money.Money, now time.Time) error {
	if b.couponCode != nil {
		return ErrCouponAlreadyApplied
	}
	if b.status != StatusCreated {
		return ErrIllegalTransition
	}
	discount = discount.Min(b.originalPrice)
	b.couponCode = &code
	b.discount = discount
	b.finalPrice = b.originalPrice.Sub(discount)
	b.updatedAt = now
	return nil
}

// Assign snapshots the employee. Re-assignment is allowed while ASSIGNED.
// A CREATED booking needs a completed payment unless nothing is owed.
func (b *Booking) Assign(employee Party, role user.Role, paid bool, now time.Time) error {
	if role != user.RoleEmployee {
		return ErrNotEmployee
	}
	switch b.status {
	case StatusCreated:
		if !paid && !b.finalPrice.IsZero() {
			return ErrAwaitingPayment
		}
	case StatusAssigned:
	default:
		return ErrNotAssignable
	}
	b.employee = &employee
	b.status = StatusAssigned
	b.updatedAt = now
	return nil
}

func (b *Booking) TransitionTo(next Status, now time.Time) error {
	if !next.IsValid() {
		return ErrUnknownStatus
	}
	if !b.status.CanTransitionTo(next) {
		return errs.Wrapf(ErrIllegalTransition, "%s -> %s", b.status, next)
	}
	b.status = next
	b.updatedAt = now
	return nil
}

func (b *Booking) Cancel(now time.Time) error {
	return b.TransitionTo(StatusCancelled, now)
}

// MarkPaid advances a freshly created booking once its payment completes.
// It reports false when the booking had already moved on.
func (b *Booking) MarkPaid(now time.Time) bool {
	if b.status != StatusCreated {
		return false
	}
	b.status = StatusAssigned
	b.updatedAt = now
	return true
}

func (b *Booking) AddFeedback(fb Feedback, now time.Time) error {
	if b.status != StatusCompleted {
		return ErrFeedbackNotAllowed
	}
	b.feedback = &fb
	b.updatedAt = now
	return nil
}

func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.customer.ID == customerID
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) Number() Number             { return b.number }
func (b *Booking) Customer() Party            { return b.customer }
func (b *Booking) Employee() *Party           { return b.employee }
func (b *Booking) Offering() Offering         { return b.offering }
func (b *Booking) ScheduledAt() time.Time     { return b.scheduledAt }
func (b *Booking) Location() Location         { return b.location }
func (b *Booking) CustomerNote() string       { return b.customerNote }
func (b *Booking) OriginalPrice() money.Money { return b.originalPrice }
func (b *Booking) Discount() money.Money      { return b.discount }
func (b *Booking) FinalPrice() money.Money    { return b.finalPrice }
func (b *Booking) CouponCode() *string        { return b.couponCode }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) Feedback() *Feedback        { return b.feedback }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }
