package request

import (
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required,max=100"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required,max=100"`
	GatewaySignature string `json:"gatewaySignature" binding:"required,hexadecimal,len=64"`
}

type FailPaymentRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required,max=100"`
	Reason         string `json:"reason" binding:"max=500"`
}
