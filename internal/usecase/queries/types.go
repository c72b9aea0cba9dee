package queries

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the read model of a booking. Employee fields are nil until
// an employee is assigned. ServiceDate and ServiceTime are ScheduledAt split
// in the service time zone.
type BookingView struct {
	ID             uuid.UUID  `json:"id"`
	BookingNumber  string     `json:"booking_number"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	CustomerMobile string     `json:"customer_mobile"`
	EmployeeID     *uuid.UUID `json:"employee_id,omitempty"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	EmployeeMobile *string    `json:"employee_mobile,omitempty"`
	ServiceID      uuid.UUID  `json:"service_id"`
	ServiceName    string     `json:"service_name"`
	PackageID      uuid.UUID  `json:"package_id"`
	PackageName    string     `json:"package_name"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	ServiceDate    string     `json:"service_date"`
	ServiceTime    string     `json:"service_time"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	Pincode        string     `json:"pincode"`
	CustomerNote   string     `json:"customer_note"`
	OriginalPrice  int64      `json:"original_price"`
	DiscountAmount int64      `json:"discount_amount"`
	FinalPrice     int64      `json:"final_price"`
	CouponCode     *string    `json:"coupon_code,omitempty"`
	Status         string     `json:"status"`
	Rating         *int       `json:"rating,omitempty"`
	Feedback       *string    `json:"feedback,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CouponView struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue int64     `json:"discount_value"`
	MinOrderValue *int64    `json:"min_order_value,omitempty"`
	MaxDiscount   *int64    `json:"max_discount,omitempty"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	Active        bool      `json:"active"`
	UsageLimit    int       `json:"usage_limit"`
	UsedCount     int       `json:"used_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PaymentView struct {
	ID               uuid.UUID  `json:"id"`
	BookingID        uuid.UUID  `json:"booking_id"`
	BookingNumber    string     `json:"booking_number"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Method           string     `json:"method"`
	Status           string     `json:"status"`
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty"`
	FailureReason    *string    `json:"failure_reason,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RevenueView sums completed payments.
type RevenueView struct {
	Total    int64  `json:"total"`
	Count    int64  `json:"count"`
	Currency string `json:"currency"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Mobile   string    `json:"mobile"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
