package coupon

import (
	"regexp"
	"strings"

	"service-booking/internal/pkg/errs"
)

var (
	ErrInvalidCouponCode    = errs.NewKind("invalid coupon code format", errs.ErrValidationFailed)
	ErrInvalidDiscountType  = errs.NewKind("discount type must be PERCENTAGE or FIXED_AMOUNT", errs.ErrValidationFailed)
	ErrInvalidDiscountValue = errs.NewKind("discount value out of range", errs.ErrValidationFailed)
	ErrCapOnlyForPercentage = errs.NewKind("max discount applies only to percentage coupons", errs.ErrValidationFailed)
	ErrInvalidMinOrderValue = errs.NewKind("minimum order value cannot be negative", errs.ErrValidationFailed)
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is always stored upper-cased.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

// Normalize upper-cases a raw code for lookups without validating it.
func Normalize(code string) string {
	return strings.TrimSpace(strings.ToUpper(code))
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

func ParseDiscountType(s string) (DiscountType, error) {
	t := DiscountType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case DiscountPercentage, DiscountFixed:
		return t, nil
	case "FIXED":
		return DiscountFixed, nil
	default:
		return "", ErrInvalidDiscountType
	}
}

func (t DiscountType) String() string {
	return string(t)
}

// validateValue allows a 0% coupon; a fixed coupon must take something off.
func validateValue(t DiscountType, value int64) error {
	switch t {
	case DiscountPercentage:
		if value < 0 || value > 100 {
			return ErrInvalidDiscountValue
		}
	case DiscountFixed:
		if value <= 0 {
			return ErrInvalidDiscountValue
		}
	default:
		return ErrInvalidDiscountType
	}
	return nil
}
