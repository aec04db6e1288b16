package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/restaurant"
)

type RestaurantRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)
	List(ctx context.Context) ([]*restaurant.Restaurant, error)
}

type PromoRepository interface {
	// GetByCode returns an ObjectNotFoundError for unknown codes.
	GetByCode(ctx context.Context, code string) (*promo.Code, error)
}
