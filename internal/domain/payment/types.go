package payment

import (
	"strings"

	"service-booking/internal/pkg/errs"
)

var (
	ErrUnknownStatus = errs.NewKind("unknown payment status", errs.ErrInvalidStatus)
	ErrUnknownMethod = errs.NewKind("unknown payment method", errs.ErrValidationFailed)
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded:
		return st, nil
	// SUCCESS is what the gateway dashboard calls a completed payment
	case "SUCCESS":
		return StatusCompleted, nil
	}
	return "", ErrUnknownStatus
}

// IsOpen reports whether a payment can still be completed.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusProcessing
}

func (s Status) String() string {
	return string(s)
}

type Method string

const (
	MethodGateway    Method = "GATEWAY"
	MethodCash       Method = "CASH"
	MethodUPI        Method = "UPI"
	MethodCard       Method = "CARD"
	MethodNetBanking Method = "NET_BANKING"
)

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodGateway, MethodCash, MethodUPI, MethodCard, MethodNetBanking:
		return m, nil
	}
	return "", ErrUnknownMethod
}

func (m Method) String() string {
	return string(m)
}
