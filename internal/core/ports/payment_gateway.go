package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settings"

	"github.com/shopspring/decimal"
)

// PaymentState is the settlement state reported by the gateway.
type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStateSuccess PaymentState = "success"
	PaymentStateError   PaymentState = "error"
)

// PaymentRequest starts a card payment session.
type PaymentRequest struct {
	OrderID     kernel.UUID
	CustomerID  kernel.UUID
	Amount      decimal.Decimal
	Description string
}

// PaymentGateway is the external card payment provider. Credentials are passed
// per call so that a settings reload takes effect immediately.
type PaymentGateway interface {
	// Initiate returns the URL the customer is redirected to.
	Initiate(ctx context.Context, cfg settings.Payment, req PaymentRequest) (string, error)
	Status(ctx context.Context, cfg settings.Payment, orderID kernel.UUID) (PaymentState, error)
	Cancel(ctx context.Context, cfg settings.Payment, orderID kernel.UUID) error
}
