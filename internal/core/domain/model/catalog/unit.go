package catalog

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Unit is the unit of measure of a product size pack.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"
)

// StockScale is the number of decimal places stock quantities are kept with.
// A pack stored with three decimals in grams or millilitres converts exactly.
const StockScale = 6

var thousand = decimal.NewFromInt(1000)

// ParseUnit accepts the stored unit code.
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if err := u.Validate(); err != nil {
		return "", err
	}
	return u, nil
}

func (u Unit) Validate() error {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("unit", fmt.Errorf("%q is not a known unit", string(u)))
	}
}

// StockAmount converts count packs of packAmount (expressed in u) into the
// canonical stock unit of the product: grams and millilitres are divided by
// 1000, kilograms and litres are taken as is, pieces count one per pack.
// The result is rounded to StockScale, and that rounded value is the one
// deducted, stored on the item and restored on cancellation.
func (u Unit) StockAmount(packAmount decimal.Decimal, count int) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))
	switch u {
	case UnitGram, UnitMilliliter:
		return packAmount.Mul(n).Div(thousand).Round(StockScale)
	case UnitKilogram, UnitLiter:
		return packAmount.Mul(n).Round(StockScale)
	default:
		return n
	}
}
