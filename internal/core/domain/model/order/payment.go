package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	switch m {
	case PaymentCash, PaymentCard, PaymentOnline:
		return m, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment_method", fmt.Errorf("%q is not supported", s))
	}
}

// RequiresSettlement reports whether the payment goes through the gateway.
func (m PaymentMethod) RequiresSettlement() bool {
	return m == PaymentCard
}

// PaymentStatus is the gateway settlement state. Only card orders leave Pending.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(s)
	switch ps {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return ps, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment_status", fmt.Errorf("%q is not supported", s))
	}
}

// Source is the client the order was placed from.
type Source string

const (
	SourceWeb     Source = "web"
	SourceMobile  Source = "mobile"
	SourceUnknown Source = "unknown"
)

// ParseSource maps unrecognised clients to SourceUnknown.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceWeb, SourceMobile:
		return Source(s)
	default:
		return SourceUnknown
	}
}
