package services

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrDistanceUnavailable is returned by a DistanceProvider that cannot route
// between two points. The router skips such restaurants.
var ErrDistanceUnavailable = errors.New("distance unavailable")

// Distance between two points along the route a courier would take.
type Distance struct {
	Meters  float64
	Minutes float64
}

// DistanceProvider measures the distance from origin to destination.
type DistanceProvider interface {
	Distance(ctx context.Context, origin, destination kernel.Location) (Distance, error)
}

// courierSpeedMetersPerMinute is used to estimate travel time along a geodesic.
const courierSpeedMetersPerMinute = 250.0

// GeodesicDistance measures the WGS-84 geodesic and never reports unavailable.
type GeodesicDistance struct{}

func (GeodesicDistance) Distance(_ context.Context, origin, destination kernel.Location) (Distance, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return Distance{}, err
	}
	meters := origin.DistanceTo(destination)
	return Distance{Meters: meters, Minutes: meters / courierSpeedMetersPerMinute}, nil
}
