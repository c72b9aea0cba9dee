//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "service-booking/internal/domain/coupon"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	Code          string
	Description   string
	DiscountType  string
	Value         int64
	MinOrderValue *int64
	MaxDiscount   *int64
	ValidFrom     time.Time
	ValidUntil    time.Time
	UsageLimit    int
	UsedCount     int
	Active        bool
	Now           time.Time
}

// Default: SAVE50, 50% off capped at 100.00, valid around Now.
func NewCouponBuilder() *CouponBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	maxDiscount := int64(10000)
	return &CouponBuilder{
		Code:         "SAVE50",
		Description:  "Half price, capped",
		DiscountType: string(domcoupon.DiscountPercentage),
		Value:        50,
		MaxDiscount:  &maxDiscount,
		ValidFrom:    now.AddDate(0, 0, -7),
		ValidUntil:   now.AddDate(0, 0, 7),
		UsageLimit:   10,
		Active:       true,
		Now:          now,
	}
}

// Fixed 20.00 off with a 300.00 minimum order.
func NewFixedCouponBuilder() *CouponBuilder {
	b := NewCouponBuilder()
	minOrder := int64(30000)
	b.Code = "FLAT20"
	b.Description = "Flat discount"
	b.DiscountType = string(domcoupon.DiscountFixed)
	b.Value = 2000
	b.MaxDiscount = nil
	b.MinOrderValue = &minOrder
	return b
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithUsage(used, limit int) *CouponBuilder {
	b.UsedCount = used
	b.UsageLimit = limit
	return b
}

func (b *CouponBuilder) newParams() domcoupon.NewParams {
	return domcoupon.NewParams{
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		Value:         b.Value,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidUntil:    b.ValidUntil,
		UsageLimit:    b.UsageLimit,
		Active:        b.Active,
	}
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.New(b.newParams(), b.Now)
}

// BuildReconstructed skips validation and carries UsedCount.
func (b *CouponBuilder) BuildReconstructed() *domcoupon.Coupon {
	return domcoupon.Reconstruct(domcoupon.ReconstructParams{
		ID:            uuid.New(),
		Code:          domcoupon.Normalize(b.Code),
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		Value:         b.Value,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidUntil:    b.ValidUntil,
		Active:        b.Active,
		UsageLimit:    b.UsageLimit,
		UsedCount:     b.UsedCount,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
	})
}

func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CreateCouponRequest {
	active, value := b.Active, b.Value
	return reqdto.CreateCouponRequest{
		Code:          b.Code,
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: &value,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidUntil:    b.ValidUntil,
		UsageLimit:    b.UsageLimit,
		Active:        &active,
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		ID:            uuid.New(),
		Code:          domcoupon.Normalize(b.Code),
		Description:   b.Description,
		DiscountType:  b.DiscountType,
		DiscountValue: b.Value,
		MinOrderValue: b.MinOrderValue,
		MaxDiscount:   b.MaxDiscount,
		ValidFrom:     b.ValidFrom,
		ValidUntil:    b.ValidUntil,
		Active:        b.Active,
		UsageLimit:    b.UsageLimit,
		UsedCount:     b.UsedCount,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
	}
}
