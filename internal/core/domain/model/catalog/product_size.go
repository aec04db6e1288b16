package catalog

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrProductSizeIsNotConstructed = errors.New("ProductSize must be created via NewProductSize constructor")

// Prices groups the price tiers of a product size. Discounted and Bonus are
// optional.
type Prices struct {
	Regular    decimal.Decimal
	Discounted *decimal.Decimal
	Bonus      *decimal.Decimal
}

// ProductSize is a purchasable pack of a product.
type ProductSize struct { //nolint:recvcheck //using for validation
	id         kernel.UUID
	productID  kernel.UUID
	name       string
	prices     Prices
	packAmount decimal.Decimal
	unit       Unit

	guard guard.ConstructorGuard
}

// NewProductSize validates identifiers, non-negative prices and a positive pack
// amount for weight and volume units.
func NewProductSize(
	id, productID kernel.UUID,
	name string,
	prices Prices,
	packAmount decimal.Decimal,
	unit Unit,
) (*ProductSize, error) {
	size := &ProductSize{guard: guard.NewConstructorGuard(), name: name}

	if err := errors.Join(
		size.setID(id),
		size.setProductID(productID),
		size.setPrices(prices),
		size.setPack(packAmount, unit),
	); err != nil {
		return nil, err
	}

	return size, nil
}

func (s *ProductSize) Validate() error {
	if s == nil {
		return ErrProductSizeIsNotConstructed
	}
	return s.guard.Validate(ErrProductSizeIsNotConstructed)
}

func (s *ProductSize) ID() kernel.UUID { return s.id }
func (s *ProductSize) ProductID() kernel.UUID { return s.productID }
func (s *ProductSize) Name() string { return s.name }
func (s *ProductSize) Prices() Prices { return s.prices }
func (s *ProductSize) PackAmount() decimal.Decimal { return s.packAmount }
func (s *ProductSize) Unit() Unit { return s.unit }

// UnitPrice resolves the price snapshot of one pack: the bonus tier for bonus
// items, otherwise the discounted price when set, otherwise the regular price.
func (s *ProductSize) UnitPrice(isBonus bool) (decimal.Decimal, error) {
	if isBonus {
		if s.prices.Bonus == nil {
			return decimal.Zero, errs.NewValueIsInvalidErrorWithCause(
				"is_bonus", fmt.Errorf("product size %s has no bonus price", s.id))
		}
		return *s.prices.Bonus, nil
	}
	if s.prices.Discounted != nil {
		return *s.prices.Discounted, nil
	}
	return s.prices.Regular, nil
}

// StockAmount is the quantity removed from the product stock when count packs
// are ordered.
func (s *ProductSize) StockAmount(count int) decimal.Decimal {
	return s.unit.StockAmount(s.packAmount, count)
}

func (s *ProductSize) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *ProductSize) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.productID = id
	return nil
}

func (s *ProductSize) setPrices(p Prices) error {
	var errList []error
	if p.Regular.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", p.Regular)))
	}
	if p.Discounted != nil && p.Discounted.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"discounted_price", fmt.Errorf("%s is negative", p.Discounted)))
	}
	if p.Bonus != nil && p.Bonus.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("bonus_price", fmt.Errorf("%s is negative", p.Bonus)))
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}
	s.prices = p
	return nil
}

func (s *ProductSize) setPack(amount decimal.Decimal, unit Unit) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	if unit != UnitPiece && !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("pack_amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	s.packAmount = amount
	s.unit = unit
	return nil
}
