package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantErr   bool
		param     string
	}{
		{name: "valid location", latitude: 43.2389, longitude: 76.8897},
		{name: "valid location at min bounds", latitude: kernel.LatitudeMin, longitude: kernel.LongitudeMin},
		{name: "valid location at max bounds", latitude: kernel.LatitudeMax, longitude: kernel.LongitudeMax},
		{name: "latitude too small", latitude: -90.0001, longitude: 10, wantErr: true, param: "latitude"},
		{name: "latitude too large", latitude: 90.5, longitude: 10, wantErr: true, param: "latitude"},
		{name: "longitude too small", latitude: 10, longitude: -181, wantErr: true, param: "longitude"},
		{name: "longitude too large", latitude: 10, longitude: 180.01, wantErr: true, param: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.latitude, tt.longitude)

			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Contains(t, err.Error(), tt.param)
				require.Error(t, loc.Validate())
				return
			}

			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.InDelta(t, tt.latitude, loc.Latitude(), 1e-12)
			assert.InDelta(t, tt.longitude, loc.Longitude(), 1e-12)
		})
	}
}

func TestNewLocation_BothCoordinatesInvalid(t *testing.T) {
	_, err := kernel.NewLocation(100, 200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
}

func TestNewOptionalLocation(t *testing.T) {
	lat, lon := 43.25, 76.95

	t.Run("should return nil when latitude is missing", func(t *testing.T) {
		loc, err := kernel.NewOptionalLocation(nil, &lon)

		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("should return nil when longitude is missing", func(t *testing.T) {
		loc, err := kernel.NewOptionalLocation(&lat, nil)

		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("should build location when both are present", func(t *testing.T) {
		loc, err := kernel.NewOptionalLocation(&lat, &lon)

		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.InDelta(t, lat, loc.Latitude(), 1e-12)
	})

	t.Run("should propagate range errors", func(t *testing.T) {
		bad := 95.0
		loc, err := kernel.NewOptionalLocation(&bad, &lon)

		require.Error(t, err)
		assert.Nil(t, loc)
	})
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location

	require.ErrorIs(t, loc.Validate(), kernel.ErrLocationIsNotConstructed)
}

func TestLocation_DistanceTo(t *testing.T) {
	t.Run("should be zero for the same point", func(t *testing.T) {
		loc, err := kernel.NewLocation(43.2389, 76.8897)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, loc.DistanceTo(loc), 1e-9)
	})

	t.Run("should match the reference geodesic between Flinders Peak and Buninyong", func(t *testing.T) {
		flinders, err := kernel.NewLocation(-37.95103342, 144.42486789)
		require.NoError(t, err)
		buninyong, err := kernel.NewLocation(-37.65282114, 143.92649554)
		require.NoError(t, err)

		assert.InDelta(t, 54972.271, flinders.DistanceTo(buninyong), 0.01)
	})

	t.Run("should measure one degree of longitude on the equator", func(t *testing.T) {
		a, err := kernel.NewLocation(0, 0)
		require.NoError(t, err)
		b, err := kernel.NewLocation(0, 1)
		require.NoError(t, err)

		assert.InDelta(t, 111319.491, a.DistanceTo(b), 0.01)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, err := kernel.NewLocation(43.2389, 76.8897)
		require.NoError(t, err)
		b, err := kernel.NewLocation(43.2567, 76.9286)
		require.NoError(t, err)

		assert.InDelta(t, a.DistanceTo(b), b.DistanceTo(a), 1e-6)
	})

	t.Run("should handle nearly antipodal points", func(t *testing.T) {
		a, err := kernel.NewLocation(0, 0)
		require.NoError(t, err)
		b, err := kernel.NewLocation(0.5, 179.7)
		require.NoError(t, err)

		d := a.DistanceTo(b)

		assert.Greater(t, d, 19_900_000.0)
		assert.Less(t, d, 20_100_000.0)
	})
}
