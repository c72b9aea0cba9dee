package queries

import (
	"context"

	"service-booking/internal/domain/coupon"
)

type CouponReadStore interface {
	FindByCode(ctx context.Context, code coupon.Code) (*CouponView, error)
	List(ctx context.Context, activeOnly bool, limit, offset int32) ([]*CouponView, error)
}

type CouponQueries interface {
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	store CouponReadStore
}

func NewCouponQueries(store CouponReadStore) CouponQueries {
	return &couponQueriesImpl{store: store}
}

// GetByCode normalizes the code the same way writes do.
func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	c, err := coupon.NewCode(code)
	if err != nil {
		return nil, err
	}
	return q.store.FindByCode(ctx, c)
}

func (q *couponQueriesImpl) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*CouponView, error) {
	if offset < 0 {
		offset = 0
	}
	return q.store.List(ctx, activeOnly, int32(ValidateLimit(limit)), int32(offset))
}

