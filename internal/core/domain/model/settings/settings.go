// Package settings holds the runtime business configuration: cashback
// percentages, distance tariffs and payment gateway credentials. Values are
// immutable; a reload replaces the whole Snapshot.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	SourceMobile = "mobile"
	SourceWeb    = "web"
)

// Snapshot is the configuration in effect for one request.
type Snapshot struct {
	Cashback Cashback
	Tariffs  DistanceTariffs
	Payment  Payment
}

// Cashback configures the loyalty program.
type Cashback struct {
	MobilePercent decimal.Decimal
	WebPercent    decimal.Decimal
	// MinOrderPrice is the item subtotal below which no bonus is earned. Zero disables it.
	MinOrderPrice decimal.Decimal
	// MaxCoveragePercent caps the share of an order payable with bonus. Zero disables it.
	MaxCoveragePercent decimal.Decimal
}

func DefaultCashback() Cashback {
	return Cashback{
		MobilePercent: decimal.NewFromInt(5),
		WebPercent:    decimal.NewFromInt(3),
	}
}

// PercentFor returns the earn percentage of an order source, zero for
// unrecognised sources.
func (c Cashback) PercentFor(source string) decimal.Decimal {
	switch source {
	case SourceMobile:
		return c.MobilePercent
	case SourceWeb:
		return c.WebPercent
	default:
		return decimal.Zero
	}
}

// Payment holds the merchant credentials of the payment gateway.
type Payment struct {
	BaseURL    string
	MerchantID string
	Secret     string
	Currency   string
	ResultURL  string
	SuccessURL string
}

// Configured reports whether card payments can be initiated.
func (p Payment) Configured() bool {
	return p.BaseURL != "" && p.MerchantID != "" && p.Secret != ""
}

// Validate checks the currency is an ISO 4217 code.
func (p Payment) Validate() error {
	var errList []error
	if _, err := currency.ParseISO(p.Currency); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("currency", err))
	}
	if p.BaseURL != "" && !strings.HasPrefix(p.BaseURL, "http") {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("paybox_url", fmt.Errorf("%q is not an URL", p.BaseURL)))
	}
	return errors.Join(errList...)
}
