package commands

import (
	"context"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
)

type stockLine struct {
	productID kernel.UUID
	amount    decimal.Decimal
}

// stockByProduct sums item stock amounts per product, ordered by product id so
// that concurrent transactions lock product rows in the same order.
func stockByProduct(items []*order.Item) []stockLine {
	totals := make(map[kernel.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		totals[item.ProductID()] = totals[item.ProductID()].Add(item.StockAmount())
	}

	lines := make([]stockLine, 0, len(totals))
	for id, amount := range totals {
		lines = append(lines, stockLine{productID: id, amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].productID.String() < lines[j].productID.String()
	})
	return lines
}

// applyPlacement deducts stock and debits the redeemed bonus of a new order.
func applyPlacement(ctx context.Context, catalog ports.CatalogRepository, customers ports.CustomerRepository, o *order.Order) error {
	for _, l := range stockByProduct(o.Items()) {
		if err := catalog.DeductStock(ctx, l.productID, l.amount); err != nil {
			return err
		}
	}
	if o.PartialBonusAmount().IsPositive() {
		return customers.DebitBonus(ctx, o.CustomerID(), o.PartialBonusAmount())
	}
	return nil
}

// compensateCancellation returns stock and redeemed bonus of a cancelled order.
func compensateCancellation(ctx context.Context, catalog ports.CatalogRepository, customers ports.CustomerRepository, o *order.Order) error {
	for _, l := range stockByProduct(o.Items()) {
		if err := catalog.RestoreStock(ctx, l.productID, l.amount); err != nil {
			return err
		}
	}
	if o.PartialBonusAmount().IsPositive() {
		return customers.CreditBonus(ctx, o.CustomerID(), o.PartialBonusAmount())
	}
	return nil
}

// applyCompletion credits the earned bonus and stamps the last order time.
func applyCompletion(ctx context.Context, customers ports.CustomerRepository, o *order.Order) error {
	if o.TotalBonusAmount().IsPositive() {
		if err := customers.CreditBonus(ctx, o.CustomerID(), o.TotalBonusAmount()); err != nil {
			return err
		}
	}
	at := o.CreatedAt()
	if d := o.Delivery().DeliveredAt(); d != nil {
		at = *d
	}
	return customers.TouchLastOrder(ctx, o.CustomerID(), at)
}
