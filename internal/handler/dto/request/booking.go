package request

import (
	"strings"

	"service-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PackageID    uuid.UUID `json:"packageId" binding:"required"`
	ServiceDate  string    `json:"serviceDate" binding:"required,datetime=2006-01-02"`
	ServiceTime  string    `json:"serviceTime" binding:"required,datetime=15:04"`
	Address      string    `json:"address" binding:"required,max=500"`
	City         string    `json:"city" binding:"max=100"`
	Pincode      string    `json:"pincode" binding:"omitempty,numeric,len=6"`
	CustomerNote string    `json:"customerNote" binding:"max=1000"`
	CouponCode   *string   `json:"couponCode,omitempty"`
}

// GetCouponCode treats a blank code as no coupon. Any other code is passed
// through unchecked; a bad one is dropped during creation.
func (r CreateBookingRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateBookingRequest) ToLocation() (booking.Location, error) {
	return booking.NewLocation(r.Address, r.City, r.Pincode)
}

type AssignBookingRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=1000"`
}

func (r FeedbackRequest) ToDomain() (booking.Feedback, error) {
	return booking.NewFeedback(r.Rating, r.Feedback)
}
