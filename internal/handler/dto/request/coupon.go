package request

import (
	"time"

	"service-booking/internal/domain/coupon"
	"service-booking/internal/pkg/patch"
)

// DiscountValue is a percentage for PERCENTAGE coupons and minor units for
// FIXED_AMOUNT coupons.
type CreateCouponRequest struct {
	Code          string    `json:"code" binding:"required,coupon_code"`
	Description   string    `json:"description" binding:"max=500"`
	DiscountType  string    `json:"discountType" binding:"required"`
	DiscountValue *int64    `json:"discountValue" binding:"required,gte=0"`
	MinOrderValue *int64    `json:"minOrderValue,omitempty" binding:"omitempty,gte=0"`
	MaxDiscount   *int64    `json:"maxDiscount,omitempty" binding:"omitempty,gt=0"`
	ValidFrom     time.Time `json:"validFrom" binding:"required"`
	ValidUntil    time.Time `json:"validUntil" binding:"required"`
	UsageLimit    int       `json:"usageLimit" binding:"required,gt=0"`
	Active        *bool     `json:"active,omitempty"`
}

func (r CreateCouponRequest) ToParams() coupon.NewParams {
	return coupon.NewParams{
		Code:          r.Code,
		Description:   r.Description,
		DiscountType:  r.DiscountType,
		Value:         patch.Coalesce(r.DiscountValue, 0),
		MinOrderValue: r.MinOrderValue,
		MaxDiscount:   r.MaxDiscount,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		UsageLimit:    r.UsageLimit,
		Active:        patch.Coalesce(r.Active, true),
	}
}

type UpdateCouponRequest struct {
	Description      *string    `json:"description,omitempty" binding:"omitempty,max=500"`
	DiscountType     *string    `json:"discountType,omitempty"`
	DiscountValue    *int64     `json:"discountValue,omitempty" binding:"omitempty,gte=0"`
	MinOrderValue    *int64     `json:"minOrderValue,omitempty" binding:"omitempty,gte=0"`
	ClearMinOrder    bool       `json:"clearMinOrderValue,omitempty"`
	MaxDiscount      *int64     `json:"maxDiscount,omitempty" binding:"omitempty,gt=0"`
	ClearMaxDiscount bool       `json:"clearMaxDiscount,omitempty"`
	ValidFrom        *time.Time `json:"validFrom,omitempty"`
	ValidUntil       *time.Time `json:"validUntil,omitempty"`
	UsageLimit       *int       `json:"usageLimit,omitempty" binding:"omitempty,gt=0"`
	Active           *bool      `json:"active,omitempty"`
}

func (r UpdateCouponRequest) ToParams() coupon.UpdateParams {
	return coupon.UpdateParams{
		Description:      r.Description,
		DiscountType:     r.DiscountType,
		Value:            r.DiscountValue,
		MinOrderValue:    r.MinOrderValue,
		ClearMinOrder:    r.ClearMinOrder,
		MaxDiscount:      r.MaxDiscount,
		ClearMaxDiscount: r.ClearMaxDiscount,
		ValidFrom:        r.ValidFrom,
		ValidUntil:       r.ValidUntil,
		UsageLimit:       r.UsageLimit,
		Active:           r.Active,
	}
}

type PreviewCouponRequest struct {
	OrderAmount int64 `json:"orderAmount" binding:"required,gt=0"`
}
