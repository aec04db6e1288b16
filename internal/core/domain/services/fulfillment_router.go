package services

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// RouteRequest selects the fulfillment mode. Location is required for
// delivery, RestaurantID for pickup.
type RouteRequest struct {
	Pickup       bool
	Location     *kernel.Location
	RestaurantID *kernel.UUID
}

// Route is the outcome of restaurant selection.
type Route struct {
	Restaurant *restaurant.Restaurant
	DistanceKM decimal.Decimal
	Minutes    float64
	Fee        decimal.Decimal
}

// FulfillmentRouter picks the restaurant that prepares an order and prices
// the delivery leg.
//
// Delivery orders go to the nearest restaurant that is open at the time of
// ordering. Restaurants are enumerated by name, then id, and on equal distance
// the first one wins. Pickup orders go to the restaurant the customer chose.
type FulfillmentRouter struct {
	distances DistanceProvider
}

// NewFulfillmentRouter uses GeodesicDistance when provider is nil.
func NewFulfillmentRouter(provider DistanceProvider) FulfillmentRouter {
	if provider == nil {
		provider = GeodesicDistance{}
	}
	return FulfillmentRouter{distances: provider}
}

// Select routes req among restaurants at now.
func (r FulfillmentRouter) Select(
	ctx context.Context,
	restaurants []*restaurant.Restaurant,
	req RouteRequest,
	tariffs settings.DistanceTariffs,
	now time.Time,
) (Route, error) {
	if req.Pickup {
		return r.selectPickup(restaurants, req.RestaurantID, now)
	}
	return r.selectNearest(ctx, restaurants, req.Location, tariffs, now)
}

func (r FulfillmentRouter) selectPickup(restaurants []*restaurant.Restaurant, id *kernel.UUID, now time.Time) (Route, error) {
	if id == nil {
		return Route{}, errs.NewValueIsRequiredError("restaurant_id")
	}

	idx := slices.IndexFunc(restaurants, func(rs *restaurant.Restaurant) bool {
		return rs != nil && rs.ID().IsEqual(*id)
	})
	if idx < 0 {
		return Route{}, errs.NewObjectNotFoundError("restaurant", id.String())
	}

	chosen := restaurants[idx]
	if !chosen.SelfPickupAvailable() {
		return Route{}, errs.NewValueIsInvalidErrorWithCause("restaurant_id",
			errors.New("self pickup is not available at "+chosen.Name()))
	}
	if !chosen.IsOpenAt(now) {
		return Route{}, errs.NewRestaurantClosedError(chosen.ID().String())
	}

	return Route{Restaurant: chosen, DistanceKM: decimal.Zero, Fee: decimal.Zero}, nil
}

func (r FulfillmentRouter) selectNearest(
	ctx context.Context,
	restaurants []*restaurant.Restaurant,
	location *kernel.Location,
	tariffs settings.DistanceTariffs,
	now time.Time,
) (Route, error) {
	if location == nil {
		return Route{}, errs.NewMissingCoordinatesError()
	}

	candidates := slices.Clone(restaurants)
	slices.SortStableFunc(candidates, func(a, b *restaurant.Restaurant) int {
		return cmp.Or(cmp.Compare(a.Name(), b.Name()), cmp.Compare(a.ID().String(), b.ID().String()))
	})

	var (
		best     *restaurant.Restaurant
		bestDist = Distance{Meters: math.MaxFloat64}
	)
	for _, rs := range candidates {
		if rs.Location() == nil || !rs.IsOpenAt(now) {
			continue
		}

		d, err := r.distances.Distance(ctx, *location, *rs.Location())
		if errors.Is(err, ErrDistanceUnavailable) {
			continue
		}
		if err != nil {
			return Route{}, err
		}

		if d.Meters < bestDist.Meters {
			best, bestDist = rs, d
		}
	}

	if best == nil {
		return Route{}, errs.NewNoAvailableRestaurantError()
	}

	km := decimal.NewFromFloat(bestDist.Meters).Div(decimal.NewFromInt(1000))
	return Route{
		Restaurant: best,
		DistanceKM: km.Round(3),
		Minutes:    bestDist.Minutes,
		Fee:        tariffs.Fee(int(km.Ceil().IntPart())),
	}, nil
}
