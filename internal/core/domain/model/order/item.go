package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/pricing"
	"fulfillment/internal/pkg/errs"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ToppingLine is the price snapshot of a topping attached to an item.
type ToppingLine struct {
	ToppingID kernel.UUID
	Price     decimal.Decimal
}

// Item is one line of an order. Prices are snapshots taken when the order is
// placed; stockAmount is what was removed from the product stock.
type Item struct {
	id            kernel.UUID
	productSizeID kernel.UUID
	productID     kernel.UUID
	quantity      int
	unitPrice     decimal.Decimal
	toppings      []ToppingLine
	isBonus       bool
	stockAmount   decimal.Decimal
	total         decimal.Decimal
}

// NewItem prices quantity packs of size with the given toppings.
func NewItem(id kernel.UUID, size *catalog.ProductSize, quantity int, toppings []catalog.Topping, isBonus bool) (*Item, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	unitPrice, err := size.UnitPrice(isBonus)
	if err != nil {
		return nil, err
	}

	item := &Item{
		id:            id,
		productSizeID: size.ID(),
		productID:     size.ProductID(),
		quantity:      quantity,
		unitPrice:     unitPrice,
		isBonus:       isBonus,
		stockAmount:   size.StockAmount(quantity),
		toppings: lo.Map(toppings, func(t catalog.Topping, _ int) ToppingLine {
			return ToppingLine{ToppingID: t.ID(), Price: t.Price()}
		}),
	}
	item.total = item.Line().Total()

	return item, nil
}

// ItemSnapshot is the persisted form of an Item.
type ItemSnapshot struct {
	ID            kernel.UUID
	ProductSizeID kernel.UUID
	ProductID     kernel.UUID
	Quantity      int
	UnitPrice     decimal.Decimal
	Toppings      []ToppingLine
	IsBonus       bool
	StockAmount   decimal.Decimal
	Total         decimal.Decimal
}

// RestoreItem rebuilds an item from storage. The stored total must match a
// recomputation from the stored prices.
func RestoreItem(s ItemSnapshot) (*Item, error) {
	var errList []error
	for _, id := range []kernel.UUID{s.ID, s.ProductSizeID, s.ProductID} {
		if err := id.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if s.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", s.Quantity)))
	}
	if len(errList) > 0 {
		return nil, errors.Join(errList...)
	}

	item := &Item{
		id:            s.ID,
		productSizeID: s.ProductSizeID,
		productID:     s.ProductID,
		quantity:      s.Quantity,
		unitPrice:     s.UnitPrice,
		toppings:      s.Toppings,
		isBonus:       s.IsBonus,
		stockAmount:   s.StockAmount,
	}
	item.total = item.Line().Total()
	if !item.total.Equal(s.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause("item_total",
			fmt.Errorf("stored %s, computed %s", s.Total, item.total))
	}

	return item, nil
}

func (i *Item) ID() kernel.UUID { return i.id }
func (i *Item) ProductSizeID() kernel.UUID { return i.productSizeID }
func (i *Item) ProductID() kernel.UUID { return i.productID }
func (i *Item) Quantity() int { return i.quantity }
func (i *Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *Item) Toppings() []ToppingLine { return i.toppings }
func (i *Item) IsBonus() bool { return i.isBonus }
func (i *Item) StockAmount() decimal.Decimal { return i.stockAmount }
func (i *Item) Total() decimal.Decimal { return i.total }

// Line is the pricing view of the item.
func (i *Item) Line() pricing.Line {
	return pricing.Line{
		Quantity:  i.quantity,
		UnitPrice: i.unitPrice,
		Toppings: lo.Map(i.toppings, func(t ToppingLine, _ int) decimal.Decimal {
			return t.Price
		}),
	}
}
