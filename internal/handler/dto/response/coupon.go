package response

import (
	"time"

	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description,omitempty"`
	DiscountType  string    `json:"discountType"`
	DiscountValue int64     `json:"discountValue"`
	MinOrderValue *int64    `json:"minOrderValue,omitempty"`
	MaxDiscount   *int64    `json:"maxDiscount,omitempty"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidUntil    time.Time `json:"validUntil"`
	Active        bool      `json:"active"`
	UsageLimit    int       `json:"usageLimit"`
	UsedCount     int       `json:"usedCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return copyInto(&CouponResponse{}, v)
}

func FromCouponList(items []*queries.CouponView) []*CouponResponse {
	return copyAll[CouponResponse](items)
}
