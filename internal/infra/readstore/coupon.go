package readstore

import (
	"context"

	"service-booking/internal/domain/coupon"
	"service-booking/internal/infra"
	"service-booking/internal/infra/db"
	"service-booking/internal/pkg/pgconv"
	"service-booking/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
)

const couponViewColumns = `id, code, description, discount_type, discount_value,
	min_order_value, max_discount, valid_from, valid_until, is_active,
	usage_limit, used_count, created_at, updated_at`

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code coupon.Code) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+couponViewColumns+` FROM coupons WHERE code = $1`, code.String())
	v, err := scanCouponView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", coupon.ErrCouponNotFound, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return v, nil
}

// List returns coupons ordered by code; activeOnly hides deactivated ones.
func (r *CouponReadStore) List(ctx context.Context, activeOnly bool, limit, offset int32) ([]*queries.CouponView, error) {
	const q = `SELECT ` + couponViewColumns + ` FROM coupons
		WHERE ($1 = false OR is_active)
		ORDER BY code
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, q, activeOnly, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	views := make([]*queries.CouponView, 0, limit)
	for rows.Next() {
		v, err := scanCouponView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	return views, nil
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var v queries.CouponView
	err := row.Scan(
		&v.ID, &v.Code, &v.Description, &v.DiscountType, &v.DiscountValue,
		&v.MinOrderValue, &v.MaxDiscount, &v.ValidFrom, &v.ValidUntil, &v.Active,
		&v.UsageLimit, &v.UsedCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
