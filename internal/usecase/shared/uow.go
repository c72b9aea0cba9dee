package shared

import (
	"context"
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/coupon"
	"service-booking/internal/domain/payment"
	"service-booking/internal/domain/user"
	"service-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Coupons() CouponRepository
	Payments() PaymentRepository
	Users() UserRepository
	Outbox() OutboxRepository
	Reads() CommandReads
	// Savepoint runs fn in a nested transaction. A failure inside fn rolls
	// back to the savepoint and leaves the outer transaction usable.
	Savepoint(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	DB() db.DBTX
}

type CommandReads interface {
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	PackageByID(ctx context.Context, id uuid.UUID) (*PackageSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	FindByCode(ctx context.Context, tx db.DBTX, code coupon.Code) (*coupon.Coupon, error)
	FindByCodeForUpdate(ctx context.Context, tx db.DBTX, code coupon.Code) (*coupon.Coupon, error)
	Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	// IncrementUsage bumps used_count only while it stays within usage_limit
	// and reports whether a row was updated.
	IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error
	Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error)
	FindByGatewayOrderIDForUpdate(ctx context.Context, tx db.DBTX, orderID string) (*payment.Payment, error)
	// FindOpenByBooking returns the PENDING or PROCESSING payment, or nil.
	FindOpenByBooking(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error)
	HasCompleted(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) error
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error
}

type OutboxRepository interface {
	Append(ctx context.Context, tx db.DBTX, ev Event) error
}
