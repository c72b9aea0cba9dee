//go:build unit || e2e

package builder

import (
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/money"
	reqdto "service-booking/internal/handler/dto/request"
	"service-booking/internal/usecase/queries"
	"service-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Number       booking.Number
	Customer     booking.Party
	Offering     booking.Offering
	ScheduledAt  time.Time
	Address      string
	City         string
	Pincode      string
	CustomerNote string
	CouponCode   *string
	Now          time.Time
}

// Default: deep-clean package priced at 500.00, scheduled two days ahead.
func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		Number:   "BKGTEST0001",
		Customer: NewUserBuilder().BuildParty(),
		Offering: booking.Offering{
			ServiceID:   uuid.New(),
			ServiceName: "Home Cleaning",
			PackageID:   uuid.New(),
			PackageName: "Deep Clean",
			Price:       money.FromMinor(50000),
		},
		ScheduledAt:  now.Add(48 * time.Hour).Truncate(time.Minute),
		Address:      "12 MG Road",
		City:         "Bengaluru",
		Pincode:      "560001",
		CustomerNote: "Ring the bell twice",
		Now:          now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithPrice(minor int64) *BookingBuilder {
	b.Offering.Price = money.FromMinor(minor)
	return b
}

func (b *BookingBuilder) WithCoupon(code string) *BookingBuilder {
	b.CouponCode = &code
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.New(booking.NewParams{
		Number:       b.Number,
		Customer:     b.Customer,
		Offering:     b.Offering,
		ScheduledAt:  b.ScheduledAt,
		Location:     booking.Location{Address: b.Address, City: b.City, Pincode: b.Pincode},
		CustomerNote: b.CustomerNote,
	}, b.Now)
}

// MustBuildInStatus walks the lifecycle graph to reach status.
func (b *BookingBuilder) MustBuildInStatus(status booking.Status) *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	if status == booking.StatusCreated {
		return bk
	}
	if status == booking.StatusCancelled {
		if err := bk.Cancel(b.Now); err != nil {
			panic(err)
		}
		return bk
	}
	bk.MarkPaid(b.Now)
	if status == booking.StatusAssigned {
		return bk
	}
	path := []booking.Status{booking.StatusInProgress, booking.StatusCompleted}
	for _, next := range path {
		if err := bk.TransitionTo(next, b.Now); err != nil {
			panic(err)
		}
		if next == status {
			break
		}
	}
	return bk
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		PackageID:    b.Offering.PackageID,
		ServiceDate:  b.ScheduledAt.Format(queries.DateLayout),
		ServiceTime:  b.ScheduledAt.Format(queries.TimeLayout),
		Address:      b.Address,
		City:         b.City,
		Pincode:      b.Pincode,
		CustomerNote: b.CustomerNote,
		CouponCode:   b.CouponCode,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:             uuid.New(),
		BookingNumber:  b.Number.String(),
		CustomerID:     b.Customer.ID,
		CustomerName:   b.Customer.Name,
		CustomerMobile: b.Customer.Mobile,
		ServiceID:      b.Offering.ServiceID,
		ServiceName:    b.Offering.ServiceName,
		PackageID:      b.Offering.PackageID,
		PackageName:    b.Offering.PackageName,
		ScheduledAt:    b.ScheduledAt,
		ServiceDate:    b.ScheduledAt.Format(queries.DateLayout),
		ServiceTime:    b.ScheduledAt.Format(queries.TimeLayout),
		Address:        b.Address,
		City:           b.City,
		Pincode:        b.Pincode,
		CustomerNote:   b.CustomerNote,
		OriginalPrice:  b.Offering.Price.Minor(),
		FinalPrice:     b.Offering.Price.Minor(),
		Status:         booking.StatusCreated.String(),
		CreatedAt:      b.Now,
		UpdatedAt:      b.Now,
	}
}

func (b *BookingBuilder) BuildPackageSnapshot() *shared.PackageSnapshot {
	return &shared.PackageSnapshot{
		ID:          b.Offering.PackageID,
		Name:        b.Offering.PackageName,
		Price:       b.Offering.Price,
		ServiceID:   b.Offering.ServiceID,
		ServiceName: b.Offering.ServiceName,
		IsActive:    true,
	}
}
