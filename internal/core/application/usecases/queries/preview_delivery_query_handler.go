package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// SettingsProvider serves the configuration snapshot in effect.
type SettingsProvider interface {
	Snapshot() settings.Snapshot
}

// PreviewDeliveryQueryHandler runs the same routing as order placement, with
// the same errors: MissingCoordinates, NoAvailableRestaurant and NotFound for
// an address of another customer.
type PreviewDeliveryQueryHandler struct {
	addresses   ports.AddressDirectory
	restaurants ports.RestaurantRepository
	router      services.FulfillmentRouter
	settings    SettingsProvider
	clock       clock.Clock
}

func NewPreviewDeliveryQueryHandler(
	addresses ports.AddressDirectory,
	restaurants ports.RestaurantRepository,
	router services.FulfillmentRouter,
	cfg SettingsProvider,
	clk clock.Clock,
) PreviewDeliveryQueryHandler {
	return PreviewDeliveryQueryHandler{
		addresses:   addresses,
		restaurants: restaurants,
		router:      router,
		settings:    cfg,
		clock:       clk,
	}
}

func (h PreviewDeliveryQueryHandler) Handle(ctx context.Context, query PreviewDeliveryQuery) (PreviewDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return PreviewDeliveryQueryResponse{}, err
	}

	address, err := h.addresses.GetAddress(ctx, query.AddressID())
	if err != nil {
		return PreviewDeliveryQueryResponse{}, err
	}
	if !address.BelongsTo(query.CustomerID()) {
		return PreviewDeliveryQueryResponse{}, errs.NewObjectNotFoundError("address", query.AddressID().String())
	}

	restaurants, err := h.restaurants.List(ctx)
	if err != nil {
		return PreviewDeliveryQueryResponse{}, err
	}

	route, err := h.router.Select(ctx, restaurants,
		services.RouteRequest{Location: address.Location()}, h.settings.Snapshot().Tariffs, h.clock.Now())
	if err != nil {
		return PreviewDeliveryQueryResponse{}, err
	}

	return PreviewDeliveryQueryResponse{
		RestaurantID:   route.Restaurant.ID(),
		RestaurantName: route.Restaurant.Name(),
		DistanceKM:     route.DistanceKM,
		Minutes:        route.Minutes,
		DeliveryFee:    route.Fee,
	}, nil
}
