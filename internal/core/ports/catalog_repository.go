package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CatalogRepository reads product sizes and toppings and adjusts product stock.
type CatalogRepository interface {
	// GetSizes returns the requested product sizes keyed by id. A missing id is
	// an ObjectNotFoundError.
	GetSizes(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*catalog.ProductSize, error)

	// GetToppings returns the requested toppings keyed by id. A missing id is
	// an ObjectNotFoundError.
	GetToppings(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Topping, error)

	// DeductStock atomically removes amount from the product stock. It fails
	// with InsufficientStockError, leaving the stock untouched, when the stock
	// is smaller than amount.
	DeductStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error

	// RestoreStock adds amount back to the product stock.
	RestoreStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error
}
