package readstore

import (
	"context"

	"service-booking/internal/domain/payment"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/pgconv"
	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentViewSelect = `SELECT p.id, p.booking_id, b.booking_number, p.customer_id,
	p.amount, p.currency, p.method, p.status,
	p.gateway_order_id, p.gateway_payment_id, p.failure_reason,
	p.paid_at, p.created_at, p.updated_at
	FROM payments p JOIN bookings b ON b.id = p.booking_id`

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

// FindLatestByBooking returns the most recent payment attempt for a booking.
func (r *PaymentReadStore) FindLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	row := r.db.QueryRow(ctx, paymentViewSelect+` WHERE p.booking_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT 1`, bookingID)
	v, err := scanPaymentView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", payment.ErrPaymentNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by booking", err)
	}
	return v, nil
}

func (r *PaymentReadStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.PaymentView, error) {
	if after == nil {
		return r.list(ctx, paymentViewSelect+` WHERE p.customer_id = $1
			ORDER BY p.created_at DESC, p.id DESC LIMIT $2`, customerID, limit)
	}
	return r.list(ctx, paymentViewSelect+` WHERE p.customer_id = $1 AND (p.created_at, p.id) < ($2, $3)
		ORDER BY p.created_at DESC, p.id DESC LIMIT $4`, customerID, after.CreatedAt, after.ID, limit)
}

func (r *PaymentReadStore) ListByStatus(ctx context.Context, status payment.Status, after *queries.Keyset, limit int32) ([]*queries.PaymentView, error) {
	if after == nil {
		return r.list(ctx, paymentViewSelect+` WHERE p.status = $1
			ORDER BY p.created_at DESC, p.id DESC LIMIT $2`, status.String(), limit)
	}
	return r.list(ctx, paymentViewSelect+` WHERE p.status = $1 AND (p.created_at, p.id) < ($2, $3)
		ORDER BY p.created_at DESC, p.id DESC LIMIT $4`, status.String(), after.CreatedAt, after.ID, limit)
}

// TotalRevenue sums completed payments per currency; an empty result is zero.
func (r *PaymentReadStore) TotalRevenue(ctx context.Context, currency string) (*queries.RevenueView, error) {
	const q = `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM payments
		WHERE status = 'COMPLETED' AND currency = $1`

	v := queries.RevenueView{Currency: currency}
	if err := r.db.QueryRow(ctx, q, currency).Scan(&v.Total, &v.Count); err != nil {
		return nil, infra.WrapRepoErr("failed to sum revenue", err)
	}
	return &v, nil
}

func (r *PaymentReadStore) list(ctx context.Context, q string, args ...any) ([]*queries.PaymentView, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var views []*queries.PaymentView
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	return views, nil
}

func scanPaymentView(row pgx.Row) (*queries.PaymentView, error) {
	var v queries.PaymentView
	err := row.Scan(
		&v.ID, &v.BookingID, &v.BookingNumber, &v.CustomerID,
		&v.Amount, &v.Currency, &v.Method, &v.Status,
		&v.GatewayOrderID, &v.GatewayPaymentID, &v.FailureReason,
		&v.PaidAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
