package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CustomerRepository exposes the user record and its bonus ledger.
type CustomerRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)

	// DebitBonus atomically removes amount from the balance, failing with
	// InsufficientBonusError when the balance is smaller.
	DebitBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error

	// CreditBonus adds amount to the balance.
	CreditBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error

	// TouchLastOrder stamps the time of the user's last completed order.
	TouchLastOrder(ctx context.Context, id kernel.UUID, at time.Time) error
}

// StaffDirectory resolves push tokens of users for notifications.
type StaffDirectory interface {
	PushTokensByRole(ctx context.Context, role customer.Role) ([]string, error)
	PushToken(ctx context.Context, userID kernel.UUID) (string, error)
}

// AddressDirectory resolves delivery addresses with their coordinates.
type AddressDirectory interface {
	GetAddress(ctx context.Context, id kernel.UUID) (customer.Address, error)
}
