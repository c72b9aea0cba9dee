package commands

import (
	"time"

	"service-booking/internal/domain/booking"
	"service-booking/internal/domain/coupon"
	"service-booking/internal/domain/money"
	"service-booking/internal/domain/payment"
	"service-booking/internal/usecase/queries"
)

// Write results are rendered from the aggregate just persisted so callers do
// not race a follow-up read.

func toBookingView(b *booking.Booking, loc *time.Location) *queries.BookingView {
	v := &queries.BookingView{
		ID:             b.ID(),
		BookingNumber:  b.Number().String(),
		CustomerID:     b.Customer().ID,
		CustomerName:   b.Customer().Name,
		CustomerMobile: b.Customer().Mobile,
		ServiceID:      b.Offering().ServiceID,
		ServiceName:    b.Offering().ServiceName,
		PackageID:      b.Offering().PackageID,
		PackageName:    b.Offering().PackageName,
		ScheduledAt:    b.ScheduledAt(),
		Address:        b.Location().Address,
		City:           b.Location().City,
		Pincode:        b.Location().Pincode,
		CustomerNote:   b.CustomerNote(),
		OriginalPrice:  b.OriginalPrice().Minor(),
		DiscountAmount: b.Discount().Minor(),
		FinalPrice:     b.FinalPrice().Minor(),
		CouponCode:     b.CouponCode(),
		Status:         b.Status().String(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
	v.ServiceDate, v.ServiceTime = queries.SplitSchedule(b.ScheduledAt(), loc)
	if e := b.Employee(); e != nil {
		id, name, mobile := e.ID, e.Name, e.Mobile
		v.EmployeeID, v.EmployeeName, v.EmployeeMobile = &id, &name, &mobile
	}
	if fb := b.Feedback(); fb != nil {
		rating, text := fb.Rating(), fb.Text()
		v.Rating, v.Feedback = &rating, &text
	}
	return v
}

func toCouponView(c *coupon.Coupon) *queries.CouponView {
	return &queries.CouponView{
		ID:            c.ID(),
		Code:          c.Code().String(),
		Description:   c.Description(),
		DiscountType:  c.DiscountType().String(),
		DiscountValue: c.Value(),
		MinOrderValue: minorPtr(c.MinOrderValue()),
		MaxDiscount:   minorPtr(c.MaxDiscount()),
		ValidFrom:     c.ValidFrom(),
		ValidUntil:    c.ValidUntil(),
		Active:        c.Active(),
		UsageLimit:    c.UsageLimit(),
		UsedCount:     c.UsedCount(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

func toPaymentView(p *payment.Payment, bookingNumber string) *queries.PaymentView {
	return &queries.PaymentView{
		ID:               p.ID(),
		BookingID:        p.BookingID(),
		BookingNumber:    bookingNumber,
		CustomerID:       p.CustomerID(),
		Amount:           p.Amount().Minor(),
		Currency:         p.Currency(),
		Method:           p.Method().String(),
		Status:           p.Status().String(),
		GatewayOrderID:   p.GatewayOrderID(),
		GatewayPaymentID: p.GatewayPaymentID(),
		FailureReason:    p.FailureReason(),
		PaidAt:           p.PaidAt(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func minorPtr(m *money.Money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Minor()
	return &v
}
