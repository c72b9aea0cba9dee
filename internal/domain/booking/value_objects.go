package booking

import (
	"strings"

	"service-booking/internal/domain/money"
	"service-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MaxFeedbackLength = 1000
)

var (
	ErrInvalidRating    = errs.NewKind("rating must be between 1 and 5", errs.ErrValidationFailed)
	ErrFeedbackTooLong  = errs.NewKind("feedback must be at most 1000 characters", errs.ErrValidationFailed)
	ErrAddressRequired  = errs.NewKind("service address is required", errs.ErrValidationFailed)
	ErrCustomerRequired = errs.NewKind("customer is required", errs.ErrValidationFailed)
	ErrPackageRequired  = errs.NewKind("service package is required", errs.ErrValidationFailed)
)

// Party is a snapshot of a user's display fields taken at write time.
type Party struct {
	ID     uuid.UUID
	Name   string
	Mobile string
}

// Offering is a snapshot of the booked service and package.
type Offering struct {
	ServiceID   uuid.UUID
	ServiceName string
	PackageID   uuid.UUID
	PackageName string
	Price       money.Money
}

type Location struct {
	Address string
	City    string
	Pincode string
}

func NewLocation(address, city, pincode string) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, ErrAddressRequired
	}
	return Location{
		Address: address,
		City:    strings.TrimSpace(city),
		Pincode: strings.TrimSpace(pincode),
	}, nil
}

type Feedback struct {
	rating int
	text   string
}

func NewFeedback(rating int, text string) (Feedback, error) {
	if rating < MinRating || rating > MaxRating {
		return Feedback{}, ErrInvalidRating
	}
	text = strings.TrimSpace(text)
	if len([]rune(text)) > MaxFeedbackLength {
		return Feedback{}, ErrFeedbackTooLong
	}
	return Feedback{rating: rating, text: text}, nil
}

func (f Feedback) Rating() int  { return f.rating }
func (f Feedback) Text() string { return f.text }
