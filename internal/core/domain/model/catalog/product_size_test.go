package catalog_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUnit_StockAmount(t *testing.T) {
	tests := []struct {
		unit  catalog.Unit
		pack  string
		count int
		want  string
	}{
		{unit: catalog.UnitGram, pack: "500", count: 3, want: "1.5"},
		{unit: catalog.UnitMilliliter, pack: "330", count: 2, want: "0.66"},
		{unit: catalog.UnitKilogram, pack: "1.5", count: 2, want: "3"},
		{unit: catalog.UnitLiter, pack: "2", count: 4, want: "8"},
		{unit: catalog.UnitPiece, pack: "6", count: 3, want: "3"},
		{unit: catalog.UnitGram, pack: "1.5", count: 1, want: "0.0015"},
		{unit: catalog.UnitMilliliter, pack: "0.7", count: 3, want: "0.0021"},
		{unit: catalog.UnitGram, pack: "1.2345678", count: 1, want: "0.001235"},
	}

	for _, tc := range tests {
		t.Run(string(tc.unit)+"_"+tc.pack, func(t *testing.T) {
			got := tc.unit.StockAmount(dec(tc.pack), tc.count)

			assert.True(t, dec(tc.want).Equal(got), "want %s, got %s", tc.want, got)
			assert.LessOrEqual(t, -got.Exponent(), int32(catalog.StockScale))
		})
	}
}

func TestUnit_StockAmountRoundTrip(t *testing.T) {
	stock := dec("1")
	amount := catalog.UnitGram.StockAmount(dec("1.5"), 1)

	// every stored value keeps StockScale places, so deduct then restore is exact
	deducted := stock.Sub(amount).Round(catalog.StockScale)
	restored := deducted.Add(amount.Round(catalog.StockScale)).Round(catalog.StockScale)

	assert.True(t, dec("0.9985").Equal(deducted), deducted.String())
	assert.True(t, stock.Equal(restored), restored.String())
}

func TestParseUnit(t *testing.T) {
	t.Run("should accept known units", func(t *testing.T) {
		for _, s := range []string{"kg", "g", "l", "ml", "pcs"} {
			u, err := catalog.ParseUnit(s)
			require.NoError(t, err)
			assert.Equal(t, s, string(u))
		}
	})

	t.Run("should reject unknown unit", func(t *testing.T) {
		_, err := catalog.ParseUnit("lb")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewProductSize(t *testing.T) {
	t.Run("should create a valid product size", func(t *testing.T) {
		size, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "500 g",
			catalog.Prices{Regular: dec("100")}, dec("500"), catalog.UnitGram)

		require.NoError(t, err)
		require.NoError(t, size.Validate())
		assert.Equal(t, catalog.UnitGram, size.Unit())
	})

	t.Run("should reject negative prices and missing pack amount", func(t *testing.T) {
		_, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "bad",
			catalog.Prices{Regular: dec("-1"), Bonus: lo.ToPtr(dec("-2"))}, decimal.Zero, catalog.UnitKilogram)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "price")
		assert.Contains(t, err.Error(), "bonus_price")
		assert.Contains(t, err.Error(), "pack_amount")
	})

	t.Run("should allow zero pack amount for pieces", func(t *testing.T) {
		_, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "1 pc",
			catalog.Prices{Regular: dec("100")}, decimal.Zero, catalog.UnitPiece)

		require.NoError(t, err)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var size catalog.ProductSize

		require.ErrorIs(t, size.Validate(), catalog.ErrProductSizeIsNotConstructed)
	})
}

func TestProductSize_UnitPrice(t *testing.T) {
	newSize := func(p catalog.Prices) *catalog.ProductSize {
		size, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "size", p, dec("1"), catalog.UnitPiece)
		require.NoError(t, err)
		return size
	}

	t.Run("should use regular price by default", func(t *testing.T) {
		price, err := newSize(catalog.Prices{Regular: dec("100")}).UnitPrice(false)

		require.NoError(t, err)
		assert.True(t, dec("100").Equal(price))
	})

	t.Run("should prefer discounted price", func(t *testing.T) {
		price, err := newSize(catalog.Prices{Regular: dec("100"), Discounted: lo.ToPtr(dec("80"))}).UnitPrice(false)

		require.NoError(t, err)
		assert.True(t, dec("80").Equal(price))
	})

	t.Run("should use bonus price for bonus items", func(t *testing.T) {
		size := newSize(catalog.Prices{Regular: dec("100"), Discounted: lo.ToPtr(dec("80")), Bonus: lo.ToPtr(dec("0"))})

		price, err := size.UnitPrice(true)

		require.NoError(t, err)
		assert.True(t, price.IsZero())
	})

	t.Run("should fail for bonus item without bonus price", func(t *testing.T) {
		_, err := newSize(catalog.Prices{Regular: dec("100")}).UnitPrice(true)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
