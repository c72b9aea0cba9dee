package money

import (
	"fmt"

	"service-booking/internal/pkg/errs"
)

var ErrNegativeAmount = errs.NewKind("money cannot be negative", errs.ErrValidationFailed)

// Money is a non-negative amount in minor currency units (paise, cents).
type Money struct {
	minor int64
}

func New(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{minor: minor}, nil
}

// FromMinor trusts its input; use it when reconstructing persisted values.
func FromMinor(minor int64) Money {
	return Money{minor: minor}
}

func Zero() Money {
	return Money{}
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

// Sub never goes below zero.
func (m Money) Sub(other Money) Money {
	if other.minor >= m.minor {
		return Money{}
	}
	return Money{minor: m.minor - other.minor}
}

// Percent returns m*pct/100 truncated toward zero.
func (m Money) Percent(pct int64) Money {
	return Money{minor: m.minor * pct / 100}
}

func (m Money) Min(other Money) Money {
	if other.minor < m.minor {
		return other
	}
	return m
}

func (m Money) LessThan(other Money) bool {
	return m.minor < other.minor
}

func (m Money) GreaterThan(other Money) bool {
	return m.minor > other.minor
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}
