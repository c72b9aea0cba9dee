package booking

import (
	"crypto/rand"
	"math/big"
	"strings"

	"service-booking/internal/pkg/errs"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrInvalidNumberFormat = errs.NewKind("invalid booking number format", errs.ErrValidationFailed)

// Number is the human-readable booking reference, e.g. BKG7Q2M9XKD.
type Number string

func GenerateNumber(prefix string, length int) (Number, error) {
	if prefix == "" || length <= 0 {
		return "", ErrInvalidNumberFormat
	}
	var sb strings.Builder
	sb.Grow(len(prefix) + length)
	sb.WriteString(prefix)

	limit := big.NewInt(int64(len(numberAlphabet)))
	for range length {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", errs.Wrap(err, "generate booking number")
		}
		sb.WriteByte(numberAlphabet[n.Int64()])
	}
	return Number(sb.String()), nil
}

func (n Number) String() string {
	return string(n)
}

// NumberGenerator lets callers swap randomness for deterministic numbers in tests.
type NumberGenerator interface {
	Next() (Number, error)
}

type RandomNumberGenerator struct {
	Prefix string
	Length int
}

func (g RandomNumberGenerator) Next() (Number, error) {
	return GenerateNumber(g.Prefix, g.Length)
}
