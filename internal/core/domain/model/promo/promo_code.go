// Package promo models time-bounded percentage discount codes.
package promo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Code is a promo code as stored in the catalog.
type Code struct {
	id        kernel.UUID
	code      string
	validFrom time.Time
	validTo   time.Time
	discount  decimal.Decimal
	active    bool
}

// NewCode validates the code text, a discount in [0, 100] and a non-inverted
// validity window.
func NewCode(
	id kernel.UUID,
	code string,
	validFrom, validTo time.Time,
	discount decimal.Decimal,
	active bool,
) (*Code, error) {
	c := &Code{id: id, code: strings.TrimSpace(code), validFrom: validFrom, validTo: validTo, active: active}

	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if c.code == "" {
		errList = append(errList, errs.NewValueIsRequiredError("promo_code"))
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("discount", discount, 0, 100))
	}
	if validTo.Before(validFrom) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"valid_to", fmt.Errorf("%s is before %s", validTo.Format(time.RFC3339), validFrom.Format(time.RFC3339))))
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	c.discount = discount
	return c, nil
}

func (c *Code) ID() kernel.UUID { return c.id }
func (c *Code) Code() string { return c.code }
func (c *Code) ValidFrom() time.Time { return c.validFrom }
func (c *Code) ValidTo() time.Time { return c.validTo }
func (c *Code) Discount() decimal.Decimal { return c.discount }
func (c *Code) Active() bool { return c.active }

// IsValidAt reports active && validFrom <= now <= validTo.
func (c *Code) IsValidAt(now time.Time) bool {
	return c.active && !now.Before(c.validFrom) && !now.After(c.validTo)
}

// EnsureValidAt returns a validation error for an inactive or expired code.
func (c *Code) EnsureValidAt(now time.Time) error {
	if c.IsValidAt(now) {
		return nil
	}
	if !c.active {
		return errs.NewValueIsInvalidErrorWithCause("promo_code", fmt.Errorf("%s is not active", c.code))
	}
	return errs.NewValueIsInvalidErrorWithCause("promo_code", fmt.Errorf("%s is outside its validity window", c.code))
}
