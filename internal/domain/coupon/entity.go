package coupon

import (
	"time"

	"service-booking/internal/domain/money"
	"service-booking/internal/pkg/errs"
	"service-booking/internal/pkg/patch"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound       = errs.NewKind("coupon not found", errs.ErrNotFound)
	ErrCouponInactive       = errs.NewKind("coupon is not active", errs.ErrInvalidState)
	ErrCouponNotYetValid    = errs.NewKind("coupon is not yet valid", errs.ErrInvalidState)
	ErrCouponExpired        = errs.NewKind("coupon has expired", errs.ErrInvalidState)
	ErrUsageLimitReached    = errs.NewKind("coupon usage limit reached", errs.ErrLimitExceeded)
	ErrMinimumOrderNotMet   = errs.NewKind("order amount below coupon minimum", errs.ErrMinimumNotMet)
	ErrInvalidValidity      = errs.NewKind("validFrom must not be after validUntil", errs.ErrValidationFailed)
	ErrInvalidUsageLimit    = errs.NewKind("usage limit must be positive", errs.ErrValidationFailed)
	ErrUsageLimitBelowUsage = errs.NewKind("usage limit cannot be lower than used count", errs.ErrValidationFailed)
)

type Coupon struct {
	id            uuid.UUID
	code          Code
	description   string
	discountType  DiscountType
	value         int64
	minOrderValue *money.Money
	maxDiscount   *money.Money
	validFrom     time.Time
	validUntil    time.Time
	active        bool
	usageLimit    int
	usedCount     int
	createdAt     time.Time
	updatedAt     time.Time
}

// Value is a percentage (1..100) for PERCENTAGE and minor units for FIXED_AMOUNT.
type NewParams struct {
	Code          string
	Description   string
	DiscountType  string
	Value         int64
	MinOrderValue *int64
	MaxDiscount   *int64
	ValidFrom     time.Time
	ValidUntil    time.Time
	UsageLimit    int
	Active        bool
}

func New(p NewParams, now time.Time) (*Coupon, error) {
	code, err := NewCode(p.Code)
	if err != nil {
		return nil, err
	}
	c := &Coupon{
		id:          uuid.New(),
		code:        code,
		description: p.Description,
		active:      p.Active,
		createdAt:   now,
		updatedAt:   now,
	}
	if err := c.apply(p); err != nil {
		return nil, err
	}
	return c, nil
}

type ReconstructParams struct {
	ID            uuid.UUID
	Code          string
	Description   string
	DiscountType  string
	Value         int64
	MinOrderValue *int64
	MaxDiscount   *int64
	ValidFrom     time.Time
	ValidUntil    time.Time
	Active        bool
	UsageLimit    int
	UsedCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(p ReconstructParams) *Coupon {
	return &Coupon{
		id:            p.ID,
		code:          Code(p.Code),
		description:   p.Description,
		discountType:  DiscountType(p.DiscountType),
		value:         p.Value,
		minOrderValue: moneyPtr(p.MinOrderValue),
		maxDiscount:   moneyPtr(p.MaxDiscount),
		validFrom:     p.ValidFrom,
		validUntil:    p.ValidUntil,
		active:        p.Active,
		usageLimit:    p.UsageLimit,
		usedCount:     p.UsedCount,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

// UpdateParams leaves nil fields untouched. Clear* flags drop the optional gates.
type UpdateParams struct {
	Description      *string
	DiscountType     *string
	Value            *int64
	MinOrderValue    *int64
	ClearMinOrder    bool
	MaxDiscount      *int64
	ClearMaxDiscount bool
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	UsageLimit       *int
	Active           *bool
}

func (c *Coupon) Update(p UpdateParams, now time.Time) error {
	next := NewParams{
		Description:   patch.Coalesce(p.Description, c.description),
		DiscountType:  patch.Coalesce(p.DiscountType, c.discountType.String()),
		Value:         patch.Coalesce(p.Value, c.value),
		MinOrderValue: patch.Optional(p.MinOrderValue, p.ClearMinOrder, minorPtr(c.minOrderValue)),
		MaxDiscount:   patch.Optional(p.MaxDiscount, p.ClearMaxDiscount, minorPtr(c.maxDiscount)),
		ValidFrom:     patch.Coalesce(p.ValidFrom, c.validFrom),
		ValidUntil:    patch.Coalesce(p.ValidUntil, c.validUntil),
		UsageLimit:    patch.Coalesce(p.UsageLimit, c.usageLimit),
		Active:        patch.Coalesce(p.Active, c.active),
	}
	if next.UsageLimit < c.usedCount {
		return ErrUsageLimitBelowUsage
	}

	// validate on a copy so a failed update leaves the coupon untouched
	candidate := *c
	if err := candidate.apply(next); err != nil {
		return err
	}
	candidate.description = next.Description
	candidate.active = next.Active
	candidate.updatedAt = now
	*c = candidate
	return nil
}

func (c *Coupon) Deactivate(now time.Time) {
	c.active = false
	c.updatedAt = now
}

func (c *Coupon) apply(p NewParams) error {
	discountType, err := ParseDiscountType(p.DiscountType)
	if err != nil {
		return err
	}
	if err := validateValue(discountType, p.Value); err != nil {
		return err
	}
	if p.MaxDiscount != nil && discountType != DiscountPercentage {
		return ErrCapOnlyForPercentage
	}
	if p.MaxDiscount != nil && *p.MaxDiscount <= 0 {
		return ErrInvalidDiscountValue
	}
	if p.MinOrderValue != nil && *p.MinOrderValue < 0 {
		return ErrInvalidMinOrderValue
	}
	if p.ValidFrom.IsZero() || p.ValidUntil.IsZero() || p.ValidFrom.After(p.ValidUntil) {
		return ErrInvalidValidity
	}
	if p.UsageLimit <= 0 {
		return ErrInvalidUsageLimit
	}

	c.discountType = discountType
	c.value = p.Value
	c.minOrderValue = moneyPtr(p.MinOrderValue)
	c.maxDiscount = moneyPtr(p.MaxDiscount)
	c.validFrom = p.ValidFrom
	c.validUntil = p.ValidUntil
	c.usageLimit = p.UsageLimit
	return nil
}

// CheckRedeemable reports the first failing gate in this order:
// active flag, validity window, usage limit, minimum order value.
func (c *Coupon) CheckRedeemable(now time.Time, orderAmount money.Money) error {
	if !c.active {
		return ErrCouponInactive
	}
	if now.Before(c.validFrom) {
		return ErrCouponNotYetValid
	}
	if now.After(c.validUntil) {
		return ErrCouponExpired
	}
	if c.usedCount >= c.usageLimit {
		return ErrUsageLimitReached
	}
	if c.minOrderValue != nil && orderAmount.LessThan(*c.minOrderValue) {
		return ErrMinimumOrderNotMet
	}
	return nil
}

// ComputeDiscount applies the discount rule without checking redeemability.
// The result is not clamped to orderAmount.
func (c *Coupon) ComputeDiscount(orderAmount money.Money) money.Money {
	switch c.discountType {
	case DiscountPercentage:
		d := orderAmount.Percent(c.value)
		if c.maxDiscount != nil {
			d = d.Min(*c.maxDiscount)
		}
		return d
	case DiscountFixed:
		return money.FromMinor(c.value)
	default:
		return money.Zero()
	}
}

func (c *Coupon) Evaluate(now time.Time, orderAmount money.Money) (money.Money, error) {
	if err := c.CheckRedeemable(now, orderAmount); err != nil {
		return money.Zero(), err
	}
	return c.ComputeDiscount(orderAmount), nil
}

// RecordRedemption mirrors a successful conditional increment in the store.
func (c *Coupon) RecordRedemption(now time.Time) error {
	if c.usedCount >= c.usageLimit {
		return ErrUsageLimitReached
	}
	c.usedCount++
	c.updatedAt = now
	return nil
}

func (c *Coupon) Remaining() int {
	return c.usageLimit - c.usedCount
}

func (c *Coupon) ID() uuid.UUID               { return c.id }
func (c *Coupon) Code() Code                  { return c.code }
func (c *Coupon) Description() string         { return c.description }
func (c *Coupon) DiscountType() DiscountType  { return c.discountType }
func (c *Coupon) Value() int64                { return c.value }
func (c *Coupon) MinOrderValue() *money.Money { return c.minOrderValue }
func (c *Coupon) MaxDiscount() *money.Money   { return c.maxDiscount }
func (c *Coupon) ValidFrom() time.Time        { return c.validFrom }
func (c *Coupon) ValidUntil() time.Time       { return c.validUntil }
func (c *Coupon) Active() bool                { return c.active }
func (c *Coupon) UsageLimit() int             { return c.usageLimit }
func (c *Coupon) UsedCount() int              { return c.usedCount }
func (c *Coupon) CreatedAt() time.Time        { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time        { return c.updatedAt }

func moneyPtr(minor *int64) *money.Money {
	if minor == nil {
		return nil
	}
	m := money.FromMinor(*minor)
	return &m
}

func minorPtr(m *money.Money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Minor()
	return &v
}
