package repository

import (
	"context"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/money"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, booking_number,
	customer_id, customer_name, customer_mobile,
	employee_id, employee_name, employee_mobile,
	service_id, service_name, package_id, package_name,
	scheduled_at, address, city, pincode, customer_note,
	original_price, discount_amount, final_price, coupon_code,
	status, rating, feedback, created_at, updated_at`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const q = `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	if _, err := tx.Exec(ctx, q, bookingArgs(b)...); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

// FindByIDForUpdate row-locks the booking until the surrounding transaction ends.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) Update(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const q = `UPDATE bookings SET
		employee_id = $2, employee_name = $3, employee_mobile = $4,
		discount_amount = $5, final_price = $6, coupon_code = $7,
		status = $8, rating = $9, feedback = $10, updated_at = $11
		WHERE id = $1`

	n := toNullableColumns(b)
	tag, err := tx.Exec(ctx, q,
		b.ID(), n.employeeID, n.employeeName, n.employeeMobile,
		b.Discount().Minor(), b.FinalPrice().Minor(), pgconv.StringPtrToPgtype(b.CouponCode()),
		b.Status().String(), n.rating, n.feedback, b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("failed to update booking", booking.ErrBookingNotFound, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) findOne(ctx context.Context, tx db.DBTX, q string, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(tx.QueryRow(ctx, q, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("failed to find booking", booking.ErrBookingNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

func bookingArgs(b *booking.Booking) []any {
	n := toNullableColumns(b)
	c, o, l := b.Customer(), b.Offering(), b.Location()
	return []any{
		b.ID(), b.Number().String(),
		c.ID, c.Name, c.Mobile,
		n.employeeID, n.employeeName, n.employeeMobile,
		o.ServiceID, o.ServiceName, o.PackageID, o.PackageName,
		b.ScheduledAt(), l.Address, l.City, l.Pincode, b.CustomerNote(),
		b.OriginalPrice().Minor(), b.Discount().Minor(), b.FinalPrice().Minor(), pgconv.StringPtrToPgtype(b.CouponCode()),
		b.Status().String(), n.rating, n.feedback, b.CreatedAt(), b.UpdatedAt(),
	}
}

type nullableColumns struct {
	employeeID     pgtype.UUID
	employeeName   pgtype.Text
	employeeMobile pgtype.Text
	rating         pgtype.Int4
	feedback       pgtype.Text
}

func toNullableColumns(b *booking.Booking) nullableColumns {
	var n nullableColumns
	if e := b.Employee(); e != nil {
		n.employeeID = pgtype.UUID{Bytes: e.ID, Valid: true}
		n.employeeName = pgtype.Text{String: e.Name, Valid: true}
		n.employeeMobile = pgtype.Text{String: e.Mobile, Valid: true}
	}
	if fb := b.Feedback(); fb != nil {
		n.rating = pgtype.Int4{Int32: int32(fb.Rating()), Valid: true}
		n.feedback = pgtype.Text{String: fb.Text(), Valid: true}
	}
	return n
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		p                            booking.ReconstructParams
		price                        int64
		employeeID                   pgtype.UUID
		employeeName, employeeMobile pgtype.Text
		couponCode, feedback         pgtype.Text
		rating                       pgtype.Int4
	)
	err := row.Scan(
		&p.ID, &p.Number,
		&p.Customer.ID, &p.Customer.Name, &p.Customer.Mobile,
		&employeeID, &employeeName, &employeeMobile,
		&p.Offering.ServiceID, &p.Offering.ServiceName, &p.Offering.PackageID, &p.Offering.PackageName,
		&p.ScheduledAt, &p.Location.Address, &p.Location.City, &p.Location.Pincode, &p.CustomerNote,
		&price, &p.Discount, &p.FinalPrice, &couponCode,
		&p.Status, &rating, &feedback, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.OriginalPrice = price
	p.Offering.Price = money.FromMinor(price)
	p.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	p.Feedback = pgconv.StringPtrFromPgtype(feedback)
	if rating.Valid {
		v := int(rating.Int32)
		p.Rating = &v
	}
	if employeeID.Valid {
		p.Employee = &booking.Party{
			ID:     uuid.UUID(employeeID.Bytes),
			Name:   employeeName.String,
			Mobile: employeeMobile.String,
		}
	}
	return booking.Reconstruct(p), nil
}
