package repository

import (
	"context"
	"time"

	"service-booking/internal/domain/coupon"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `id, code, description, discount_type, discount_value,
	min_order_value, max_discount, valid_from, valid_until, is_active,
	usage_limit, used_count, created_at, updated_at`

const couponCodeConstraint = "coupons_code_key"

var ErrDuplicateCouponCode = errs.NewKind("coupon code already exists", errs.ErrConflict)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	const q = `INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, q,
		c.ID(), c.Code().String(), c.Description(), c.DiscountType().String(), c.Value(),
		pgconv.Int64PtrToPgtype(minorPtr(c.MinOrderValue())), pgconv.Int64PtrToPgtype(minorPtr(c.MaxDiscount())),
		c.ValidFrom(), c.ValidUntil(), c.Active(),
		c.UsageLimit(), c.UsedCount(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if pgconv.ConstraintName(err) == couponCodeConstraint {
			return infra.WrapRepoErr("failed to create coupon", ErrDuplicateCouponCode, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code coupon.Code) (*coupon.Coupon, error) {
	return r.findOne(ctx, tx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
}

// FindByCodeForUpdate serialises concurrent redemptions of the same coupon.
func (r *CouponRepository) FindByCodeForUpdate(ctx context.Context, tx db.DBTX, code coupon.Code) (*coupon.Coupon, error) {
	return r.findOne(ctx, tx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1 FOR UPDATE`, code)
}

// Update writes the administrative fields. used_count is owned by IncrementUsage.
func (r *CouponRepository) Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	const q = `UPDATE coupons SET
		description = $2, discount_type = $3, discount_value = $4,
		min_order_value = $5, max_discount = $6, valid_from = $7, valid_until = $8,
		is_active = $9, usage_limit = $10, updated_at = $11
		WHERE id = $1 AND used_count <= $10`

	tag, err := tx.Exec(ctx, q,
		c.ID(), c.Description(), c.DiscountType().String(), c.Value(),
		pgconv.Int64PtrToPgtype(minorPtr(c.MinOrderValue())), pgconv.Int64PtrToPgtype(minorPtr(c.MaxDiscount())),
		c.ValidFrom(), c.ValidUntil(), c.Active(), c.UsageLimit(), c.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("failed to update coupon", coupon.ErrUsageLimitBelowUsage, infra.KindConflict)
	}
	return nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (bool, error) {
	const q = `UPDATE coupons SET used_count = used_count + 1, updated_at = $2
		WHERE id = $1 AND used_count < usage_limit`

	tag, err := tx.Exec(ctx, q, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponRepository) findOne(ctx context.Context, tx db.DBTX, q string, code coupon.Code) (*coupon.Coupon, error) {
	c, err := scanCoupon(tx.QueryRow(ctx, q, code.String()))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("failed to find coupon", coupon.ErrCouponNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return c, nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		p                          coupon.ReconstructParams
		minOrderValue, maxDiscount pgtype.Int8
	)
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.Value,
		&minOrderValue, &maxDiscount, &p.ValidFrom, &p.ValidUntil, &p.Active,
		&p.UsageLimit, &p.UsedCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.MinOrderValue = pgconv.Int64PtrFromPgtype(minOrderValue)
	p.MaxDiscount = pgconv.Int64PtrFromPgtype(maxDiscount)
	return coupon.Reconstruct(p), nil
}
