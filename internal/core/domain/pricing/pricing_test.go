package pricing_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/domain/pricing"
	"fulfillment/internal/pkg/errs"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newPromo(t *testing.T, discount string, active bool, from, to time.Time) *promo.Code {
	t.Helper()
	code, err := promo.NewCode(kernel.NewUUID(), "SPRING", from, to, dec(discount), active)
	require.NoError(t, err)
	return code
}

func TestLine_Total(t *testing.T) {
	line := pricing.Line{Quantity: 3, UnitPrice: dec("100"), Toppings: []decimal.Decimal{dec("10"), dec("5.5")}}

	assert.True(t, dec("346.5").Equal(line.Total()), line.Total().String())
}

func TestComputeTotal(t *testing.T) {
	t.Run("single item pickup without promo and bonus", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: 1, UnitPrice: dec("100")}}

		total, err := pricing.ComputeTotal(lines, decimal.Zero, nil, decimal.Zero, now)

		require.NoError(t, err)
		assert.True(t, dec("100").Equal(total))
	})

	t.Run("valid promo discounts the whole amount", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: 2, UnitPrice: dec("100")}}
		code := newPromo(t, "10", true, now.Add(-time.Hour), now.Add(time.Hour))

		total, err := pricing.ComputeTotal(lines, decimal.Zero, code, decimal.Zero, now)

		require.NoError(t, err)
		assert.True(t, dec("180").Equal(total), total.String())
	})

	t.Run("promo applies to delivery fee before bonus", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: 1, UnitPrice: dec("185")}}
		code := newPromo(t, "10", true, now.Add(-time.Hour), now.Add(time.Hour))

		total, err := pricing.ComputeTotal(lines, dec("15"), code, dec("30"), now)

		require.NoError(t, err)
		assert.True(t, dec("150").Equal(total), total.String())
	})

	t.Run("bonus redemption is subtracted", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: 1, UnitPrice: dec("100")}}

		total, err := pricing.ComputeTotal(lines, decimal.Zero, nil, dec("30"), now)

		require.NoError(t, err)
		assert.True(t, dec("70").Equal(total))
	})

	t.Run("total never drops below zero", func(t *testing.T) {
		lines := []pricing.Line{{Quantity: 1, UnitPrice: dec("20")}}

		total, err := pricing.ComputeTotal(lines, decimal.Zero, nil, dec("50"), now)

		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("expired promo is a validation error", func(t *testing.T) {
		code := newPromo(t, "10", true, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

		_, err := pricing.ComputeTotal([]pricing.Line{{Quantity: 1, UnitPrice: dec("1")}}, decimal.Zero, code, decimal.Zero, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("inactive promo is a validation error", func(t *testing.T) {
		code := newPromo(t, "10", false, now.Add(-time.Hour), now.Add(time.Hour))

		_, err := pricing.ComputeTotal(nil, decimal.Zero, code, decimal.Zero, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestComputeTotal_NeverNegative(t *testing.T) {
	faker := gofakeit.New(42)

	for range 200 {
		lines := make([]pricing.Line, faker.IntRange(0, 5))
		for i := range lines {
			lines[i] = pricing.Line{
				Quantity:  faker.IntRange(1, 10),
				UnitPrice: decimal.NewFromFloat(faker.Price(0, 5000)),
				Toppings:  []decimal.Decimal{decimal.NewFromFloat(faker.Price(0, 300))},
			}
		}
		fee := decimal.NewFromFloat(faker.Price(0, 1000))
		redeemed := decimal.NewFromFloat(faker.Price(0, 100000))

		total, err := pricing.ComputeTotal(lines, fee, nil, redeemed, now)

		require.NoError(t, err)
		assert.False(t, total.IsNegative())
		assert.True(t, total.Equal(pricing.Total(lines, fee, decimal.Zero, redeemed)))
	}
}

func TestEarnedBonus(t *testing.T) {
	assert.True(t, dec("3.5").Equal(pricing.EarnedBonus(dec("100"), dec("30"), dec("5"))))
	assert.True(t, pricing.EarnedBonus(dec("10"), dec("30"), dec("5")).IsZero())
	assert.True(t, pricing.EarnedBonus(dec("100"), decimal.Zero, decimal.Zero).IsZero())
}

func TestCalculate(t *testing.T) {
	lines := []pricing.Line{{Quantity: 1, UnitPrice: dec("100")}}

	t.Run("earns bonus by source", func(t *testing.T) {
		q, err := pricing.Calculate(pricing.Input{Lines: lines, BonusRedeemed: dec("30"), Source: settings.SourceMobile},
			settings.DefaultCashback(), now)

		require.NoError(t, err)
		assert.True(t, dec("70").Equal(q.Total))
		assert.True(t, dec("100").Equal(q.Gross))
		assert.True(t, dec("3.5").Equal(q.EarnedBonus))
	})

	t.Run("unknown source earns nothing", func(t *testing.T) {
		q, err := pricing.Calculate(pricing.Input{Lines: lines, Source: "unknown"}, settings.DefaultCashback(), now)

		require.NoError(t, err)
		assert.True(t, q.EarnedBonus.IsZero())
	})

	t.Run("redemption above gross is capped", func(t *testing.T) {
		q, err := pricing.Calculate(pricing.Input{Lines: lines, BonusRedeemed: dec("150")}, settings.DefaultCashback(), now)

		require.NoError(t, err)
		assert.True(t, dec("100").Equal(q.BonusRedeemed))
		assert.True(t, q.Total.IsZero())
	})

	t.Run("redemption above max coverage is rejected", func(t *testing.T) {
		cashback := settings.DefaultCashback()
		cashback.MaxCoveragePercent = dec("50")

		_, err := pricing.Calculate(pricing.Input{Lines: lines, BonusRedeemed: dec("60")}, cashback, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("no bonus below minimum order price", func(t *testing.T) {
		cashback := settings.DefaultCashback()
		cashback.MinOrderPrice = dec("500")

		q, err := pricing.Calculate(pricing.Input{Lines: lines, Source: settings.SourceWeb}, cashback, now)

		require.NoError(t, err)
		assert.True(t, q.EarnedBonus.IsZero())
	})

	t.Run("negative redemption is rejected", func(t *testing.T) {
		_, err := pricing.Calculate(pricing.Input{Lines: lines, BonusRedeemed: dec("-1")}, settings.DefaultCashback(), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
