package repository

import (
	"context"

	"service-booking/internal/domain/payment"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, booking_id, customer_id, amount, currency, method, status,
	gateway_order_id, gateway_payment_id, gateway_signature, failure_reason,
	paid_at, created_at, updated_at`

const (
	openPaymentIndex      = "payments_open_per_booking"
	completedPaymentIndex = "payments_completed_per_booking"
)

var ErrOpenPaymentExists = errs.NewKind("an open payment already exists for this booking", errs.ErrConflict)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	const q = `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, q,
		p.ID(), p.BookingID(), p.CustomerID(), p.Amount().Minor(), p.Currency(), p.Method().String(), p.Status().String(),
		pgconv.StringPtrToPgtype(p.GatewayOrderID()), pgconv.StringPtrToPgtype(p.GatewayPaymentID()),
		pgconv.StringPtrToPgtype(p.GatewaySignature()), pgconv.StringPtrToPgtype(p.FailureReason()),
		pgconv.TimePtrToPgtype(p.PaidAt()), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return classifyPaymentErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	const q = `UPDATE payments SET
		status = $2, gateway_order_id = $3, gateway_payment_id = $4, gateway_signature = $5,
		failure_reason = $6, paid_at = $7, updated_at = $8
		WHERE id = $1`

	tag, err := tx.Exec(ctx, q,
		p.ID(), p.Status().String(),
		pgconv.StringPtrToPgtype(p.GatewayOrderID()), pgconv.StringPtrToPgtype(p.GatewayPaymentID()),
		pgconv.StringPtrToPgtype(p.GatewaySignature()), pgconv.StringPtrToPgtype(p.FailureReason()),
		pgconv.TimePtrToPgtype(p.PaidAt()), p.UpdatedAt(),
	)
	if err != nil {
		return classifyPaymentErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("failed to update payment", payment.ErrPaymentNotFound, infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	p, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	return p, wrapPaymentFind(err)
}

func (r *PaymentRepository) FindByGatewayOrderIDForUpdate(ctx context.Context, tx db.DBTX, orderID string) (*payment.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id = $1 FOR UPDATE`
	p, err := scanPayment(tx.QueryRow(ctx, q, orderID))
	return p, wrapPaymentFind(err)
}

func (r *PaymentRepository) FindOpenByBooking(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments
		WHERE booking_id = $1 AND status IN ('PENDING', 'PROCESSING')`
	p, err := scanPayment(tx.QueryRow(ctx, q, bookingID))
	if pgconv.IsNoRows(err) {
		return nil, nil
	}
	return p, wrapPaymentFind(err)
}

func (r *PaymentRepository) HasCompleted(ctx context.Context, tx db.DBTX, bookingID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id = $1 AND status = 'COMPLETED')`
	var exists bool
	if err := tx.QueryRow(ctx, q, bookingID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check completed payment", err)
	}
	return exists, nil
}

func wrapPaymentFind(err error) error {
	if err == nil {
		return nil
	}
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr("failed to find payment", payment.ErrPaymentNotFound, infra.KindNotFound)
	}
	return infra.WrapRepoErr("failed to find payment", err)
}

func classifyPaymentErr(msg string, err error) error {
	switch pgconv.ConstraintName(err) {
	case openPaymentIndex:
		return infra.WrapRepoErr(msg, ErrOpenPaymentExists, infra.KindDuplicateKey)
	case completedPaymentIndex:
		return infra.WrapRepoErr(msg, payment.ErrAlreadyCompleted, infra.KindDuplicateKey)
	}
	return infra.WrapRepoErr(msg, err)
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		p                                payment.ReconstructParams
		orderID, paymentID, sig, failure pgtype.Text
		paidAt                           pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID, &p.BookingID, &p.CustomerID, &p.Amount, &p.Currency, &p.Method, &p.Status,
		&orderID, &paymentID, &sig, &failure,
		&paidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.GatewayOrderID = pgconv.StringPtrFromPgtype(orderID)
	p.GatewayPaymentID = pgconv.StringPtrFromPgtype(paymentID)
	p.GatewaySignature = pgconv.StringPtrFromPgtype(sig)
	p.FailureReason = pgconv.StringPtrFromPgtype(failure)
	p.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	return payment.Reconstruct(p), nil
}
