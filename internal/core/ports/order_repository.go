package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates
// together with their delivery leg and items.
type OrderRepository interface {
	// Add persists a new order, its delivery and its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, assignment, payment and proof changes of an
	// existing order. Items are immutable after placement.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the surrounding
	// transaction ends. Concurrent transitions of one order are serialized by it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
