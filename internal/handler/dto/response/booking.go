package response

import (
	"time"

	"service-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	BookingNumber  string     `json:"bookingNumber"`
	CustomerID     uuid.UUID  `json:"customerId"`
	CustomerName   string     `json:"customerName"`
	CustomerMobile string     `json:"customerMobile"`
	EmployeeID     *uuid.UUID `json:"employeeId,omitempty"`
	EmployeeName   *string    `json:"employeeName,omitempty"`
	EmployeeMobile *string    `json:"employeeMobile,omitempty"`
	ServiceID      uuid.UUID  `json:"serviceId"`
	ServiceName    string     `json:"serviceName"`
	PackageID      uuid.UUID  `json:"packageId"`
	PackageName    string     `json:"packageName"`
	ServiceDate    string     `json:"serviceDate"`
	ServiceTime    string     `json:"serviceTime"`
	Address        string     `json:"address"`
	City           string     `json:"city,omitempty"`
	Pincode        string     `json:"pincode,omitempty"`
	CustomerNote   string     `json:"customerNote,omitempty"`
	OriginalPrice  int64      `json:"originalPrice"`
	DiscountAmount int64      `json:"discountAmount"`
	FinalPrice     int64      `json:"finalPrice"`
	CouponCode     *string    `json:"couponCode,omitempty"`
	Status         string     `json:"status"`
	Rating         *int       `json:"rating,omitempty"`
	Feedback       *string    `json:"feedback,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	NextCursor string             `json:"nextCursor,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return copyInto(&BookingResponse{}, v)
}

func FromBookingList(items []*queries.BookingView, next *queries.Cursor) *BookingListResponse {
	res := &BookingListResponse{Bookings: copyAll[BookingResponse](items)}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}
