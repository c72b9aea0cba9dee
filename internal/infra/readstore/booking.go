package readstore

import (
	"context"
	"fmt"
	"strings"

	"service-booking/internal/domain/booking"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/pgconv"
	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingViewColumns = `id, booking_number,
	customer_id, customer_name, customer_mobile,
	employee_id, employee_name, employee_mobile,
	service_id, service_name, package_id, package_name,
	scheduled_at, address, city, pincode, customer_note,
	original_price, discount_amount, final_price, coupon_code,
	status, rating, feedback, created_at, updated_at`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingViewColumns+` FROM bookings WHERE id = $1`, id)
	v, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", booking.ErrBookingNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return v, nil
}

// List pages newest first on (created_at, id).
func (r *BookingReadStore) List(ctx context.Context, filter queries.BookingListFilter, limit int32) ([]*queries.BookingView, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, vals ...any) {
		conds = append(conds, cond)
		args = append(args, vals...)
	}
	if filter.CustomerID != nil {
		add(fmt.Sprintf("customer_id = $%d", len(args)+1), *filter.CustomerID)
	}
	if filter.EmployeeID != nil {
		add(fmt.Sprintf("employee_id = $%d", len(args)+1), *filter.EmployeeID)
	}
	if filter.Status != nil {
		add(fmt.Sprintf("status = $%d", len(args)+1), filter.Status.String())
	}
	if filter.After != nil {
		add(fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)+1, len(args)+2), filter.After.CreatedAt, filter.After.ID)
	}

	q := `SELECT ` + bookingViewColumns + ` FROM bookings`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	views := make([]*queries.BookingView, 0, limit)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return views, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		v          queries.BookingView
		employeeID pgtype.UUID
		rating     pgtype.Int2
	)
	err := row.Scan(
		&v.ID, &v.BookingNumber,
		&v.CustomerID, &v.CustomerName, &v.CustomerMobile,
		&employeeID, &v.EmployeeName, &v.EmployeeMobile,
		&v.ServiceID, &v.ServiceName, &v.PackageID, &v.PackageName,
		&v.ScheduledAt, &v.Address, &v.City, &v.Pincode, &v.CustomerNote,
		&v.OriginalPrice, &v.DiscountAmount, &v.FinalPrice, &v.CouponCode,
		&v.Status, &rating, &v.Feedback, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.EmployeeID = pgconv.UUIDPtrFromPgtype(employeeID)
	if rating.Valid {
		n := int(rating.Int16)
		v.Rating = &n
	}
	return &v, nil
}
