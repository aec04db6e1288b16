package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// WGS-84 ellipsoid.
const (
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1 / 298.257223563
	wgs84SemiMinor  = (1 - wgs84Flattening) * wgs84SemiMajor
	meanEarthRadius = 6371008.8

	vincentyMaxIterations = 200
	vincentyTolerance     = 1e-12
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a point on the Earth surface in decimal degrees.
//
//	loc, err := kernel.NewLocation(43.2389, 76.8897)
//	if err != nil {
//	    return err
//	}
//	meters := loc.DistanceTo(other)
type Location struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewLocation validates the latitude against [-90, 90] and the longitude
// against [-180, 180].
func NewLocation(latitude, longitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// NewOptionalLocation builds a Location only when both coordinates are present.
// A missing coordinate yields nil, which callers treat as "unknown position".
func NewOptionalLocation(latitude, longitude *float64) (*Location, error) {
	if latitude == nil || longitude == nil {
		return nil, nil //nolint:nilnil // absence is a valid state
	}

	loc, err := NewLocation(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Validate fails for a Location that was not created by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) Longitude() float64 {
	return l.longitude
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.latitude, l.longitude)
}

// IsEqual compares coordinates exactly.
func (l Location) IsEqual(other Location) bool {
	return l.latitude == other.latitude && l.longitude == other.longitude
}

// DistanceTo returns the geodesic distance in meters on the WGS-84 ellipsoid
// (Vincenty inverse formula). Nearly antipodal points where the iteration
// does not converge fall back to the great-circle distance.
func (l Location) DistanceTo(other Location) float64 {
	if l.IsEqual(other) {
		return 0
	}

	if d, ok := vincenty(l, other); ok {
		return d
	}
	return haversine(l, other)
}

func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	l.longitude = longitude
	return nil
}

func vincenty(p1, p2 Location) (float64, bool) {
	a, b, f := wgs84SemiMajor, wgs84SemiMinor, wgs84Flattening

	lon := radians(p2.longitude - p1.longitude)
	u1 := math.Atan((1 - f) * math.Tan(radians(p1.latitude)))
	u2 := math.Atan((1 - f) * math.Tan(radians(p2.latitude)))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := lon
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	for range vincentyMaxIterations {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			return 0, true
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		cos2SigmaM = 0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}
		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = lon + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < vincentyTolerance {
			uSq := cosSqAlpha * (a*a - b*b) / (b * b)
			bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return b * bigA * (sigma - deltaSigma), true
		}
	}

	return 0, false
}

func haversine(p1, p2 Location) float64 {
	lat1, lat2 := radians(p1.latitude), radians(p2.latitude)
	dLat := lat2 - lat1
	dLon := radians(p2.longitude - p1.longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * meanEarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
