// Package pricing computes order totals and loyalty bonus amounts.
//
// The order of operations is fixed: item subtotal, plus delivery fee, promo
// discount on the sum, then bonus redemption floored at zero. Money is kept
// in shopspring/decimal and rounded to two places.
package pricing

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/pkg/errs"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Line is one priced order item.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Toppings  []decimal.Decimal
}

// Total is quantity × unit price plus quantity × each topping price.
func (l Line) Total() decimal.Decimal {
	qty := decimal.NewFromInt(int64(l.Quantity))
	toppings := lo.Reduce(l.Toppings, func(acc decimal.Decimal, p decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(p)
	}, decimal.Zero)
	return qty.Mul(l.UnitPrice).Add(qty.Mul(toppings))
}

// Subtotal sums the line totals.
func Subtotal(lines []Line) decimal.Decimal {
	return lo.Reduce(lines, func(acc decimal.Decimal, l Line, _ int) decimal.Decimal {
		return acc.Add(l.Total())
	}, decimal.Zero)
}

// Gross is the subtotal plus delivery fee with the promo discount percentage
// applied. A zero discount leaves the amount unchanged.
func Gross(lines []Line, deliveryFee, discountPercent decimal.Decimal) decimal.Decimal {
	gross := Subtotal(lines).Add(deliveryFee)
	if discountPercent.IsPositive() {
		gross = gross.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
	}
	return gross.Round(moneyPlaces)
}

// Total recomputes an order total from already validated inputs.
func Total(lines []Line, deliveryFee, discountPercent, bonusRedeemed decimal.Decimal) decimal.Decimal {
	return floor(Gross(lines, deliveryFee, discountPercent).Sub(bonusRedeemed)).Round(moneyPlaces)
}

// ComputeTotal validates the promo code at now and returns the order total.
// An inactive or expired code is an error, never silently skipped.
func ComputeTotal(
	lines []Line,
	deliveryFee decimal.Decimal,
	code *promo.Code,
	bonusRedeemed decimal.Decimal,
	now time.Time,
) (decimal.Decimal, error) {
	discount, err := discountOf(code, now)
	if err != nil {
		return decimal.Zero, err
	}
	return Total(lines, deliveryFee, discount, bonusRedeemed), nil
}

// EarnedBonus is the bonus accrued on the cash-paid portion of the order.
func EarnedBonus(gross, bonusRedeemed, percent decimal.Decimal) decimal.Decimal {
	return floor(gross.Sub(bonusRedeemed)).Mul(percent).Div(hundred).Round(moneyPlaces)
}

// Input describes an order to be priced.
type Input struct {
	Lines         []Line
	DeliveryFee   decimal.Decimal
	Promo         *promo.Code
	BonusRedeemed decimal.Decimal
	Source        string
}

// Quote is the full pricing outcome of an order.
type Quote struct {
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	DiscountPercent decimal.Decimal
	Gross           decimal.Decimal
	// BonusRedeemed is the requested redemption capped at the gross amount.
	BonusRedeemed decimal.Decimal
	Total         decimal.Decimal
	EarnedBonus   decimal.Decimal
}

// Calculate prices an order under the cashback configuration. Redemption above
// the configured coverage share is rejected; no bonus is earned below the
// minimum order price.
func Calculate(in Input, cashback settings.Cashback, now time.Time) (Quote, error) {
	if in.BonusRedeemed.IsNegative() {
		return Quote{}, errs.NewValueIsInvalidErrorWithCause("bonus_redeemed",
			fmt.Errorf("%s is negative", in.BonusRedeemed))
	}
	if in.DeliveryFee.IsNegative() {
		return Quote{}, errs.NewValueIsInvalidErrorWithCause("delivery_fee",
			fmt.Errorf("%s is negative", in.DeliveryFee))
	}

	discount, err := discountOf(in.Promo, now)
	if err != nil {
		return Quote{}, err
	}

	subtotal := Subtotal(in.Lines)
	gross := Gross(in.Lines, in.DeliveryFee, discount)

	if cashback.MaxCoveragePercent.IsPositive() && in.BonusRedeemed.IsPositive() {
		limit := gross.Mul(cashback.MaxCoveragePercent).Div(hundred).Round(moneyPlaces)
		if in.BonusRedeemed.GreaterThan(limit) {
			return Quote{}, errs.NewValueIsInvalidErrorWithCause("bonus_redeemed",
				fmt.Errorf("%s exceeds %s%% of the order (%s)", in.BonusRedeemed, cashback.MaxCoveragePercent, limit))
		}
	}

	redeemed := decimal.Min(in.BonusRedeemed, gross)

	earned := decimal.Zero
	if !cashback.MinOrderPrice.IsPositive() || !subtotal.LessThan(cashback.MinOrderPrice) {
		earned = EarnedBonus(gross, redeemed, cashback.PercentFor(in.Source))
	}

	return Quote{
		Subtotal:        subtotal.Round(moneyPlaces),
		DeliveryFee:     in.DeliveryFee,
		DiscountPercent: discount,
		Gross:           gross,
		BonusRedeemed:   redeemed,
		Total:           Total(in.Lines, in.DeliveryFee, discount, redeemed),
		EarnedBonus:     earned,
	}, nil
}

func discountOf(code *promo.Code, now time.Time) (decimal.Decimal, error) {
	if code == nil {
		return decimal.Zero, nil
	}
	if err := code.EnsureValidAt(now); err != nil {
		return decimal.Zero, err
	}
	return code.Discount(), nil
}

func floor(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
