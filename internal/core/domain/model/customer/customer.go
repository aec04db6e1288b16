// Package customer models the user side of an order: the role an actor acts
// under and the loyalty bonus balance.
package customer

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Role is the platform role of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleCollector Role = "collector"
	RoleCourier   Role = "delivery"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleUser, RoleCollector, RoleCourier, RoleAdmin:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// IsStaff reports whether the role may drive fulfillment transitions.
func (r Role) IsStaff() bool {
	return r == RoleCollector || r == RoleCourier
}

// Customer is a snapshot of a user record. The bonus balance is only changed
// through the ledger methods of the customer repository.
type Customer struct {
	id          kernel.UUID
	role        Role
	bonus       decimal.Decimal
	pushToken   string
	lastOrderAt *time.Time
}

func Restore(id kernel.UUID, role Role, bonus decimal.Decimal, pushToken string, lastOrderAt *time.Time) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if bonus.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("bonus", fmt.Errorf("%s is negative", bonus))
	}
	return &Customer{id: id, role: role, bonus: bonus, pushToken: pushToken, lastOrderAt: lastOrderAt}, nil
}

func (c *Customer) ID() kernel.UUID { return c.id }
func (c *Customer) Role() Role { return c.role }
func (c *Customer) Bonus() decimal.Decimal { return c.bonus }
func (c *Customer) PushToken() string { return c.pushToken }
func (c *Customer) LastOrderAt() *time.Time { return c.lastOrderAt }

// EnsureCanRedeem rejects a redemption larger than the current balance.
func (c *Customer) EnsureCanRedeem(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("bonus_redeemed", fmt.Errorf("%s is negative", amount))
	}
	if amount.GreaterThan(c.bonus) {
		return errs.NewInsufficientBonusError(c.id.String(), amount, c.bonus)
	}
	return nil
}
