package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type AddressDirectoryMock struct {
	mock.Mock
}

func (m *AddressDirectoryMock) GetAddress(ctx context.Context, id kernel.UUID) (customer.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(customer.Address), args.Error(1)
}

type RestaurantRepositoryMock struct {
	mock.Mock
}

func (m *RestaurantRepositoryMock) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *RestaurantRepositoryMock) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Restaurant), args.Error(1)
}

type fixedSettings settings.Snapshot

func (s fixedSettings) Snapshot() settings.Snapshot { return settings.Snapshot(s) }

func previewFixture(t *testing.T) (*AddressDirectoryMock, *RestaurantRepositoryMock, queries.PreviewDeliveryQueryHandler) {
	t.Helper()
	addresses := &AddressDirectoryMock{}
	restaurants := &RestaurantRepositoryMock{}
	handler := queries.NewPreviewDeliveryQueryHandler(addresses, restaurants,
		services.NewFulfillmentRouter(nil),
		fixedSettings{Tariffs: settings.DefaultDistanceTariffs()},
		clock.Fixed(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
	return addresses, restaurants, handler
}

func location(t *testing.T, lat, lon float64) *kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return &l
}

func TestPreviewDeliveryQueryHandler_Handle(t *testing.T) {
	ctx := context.Background()
	customerID := kernel.NewUUID()

	central, err := restaurant.NewRestaurant(kernel.NewUUID(), "Central", "Abay 1",
		location(t, 43.2389, 76.8897), restaurant.AlwaysOpen(), true)
	require.NoError(t, err)

	t.Run("routes to the nearest open restaurant", func(t *testing.T) {
		addresses, restaurants, handler := previewFixture(t)
		address, err := customer.NewAddress(kernel.NewUUID(), customerID, "Almaty", "Dostyk 5",
			location(t, 43.2420, 76.8950))
		require.NoError(t, err)
		addresses.On("GetAddress", ctx, address.ID()).Return(address, nil).Once()
		restaurants.On("List", ctx).Return([]*restaurant.Restaurant{central}, nil).Once()

		query, err := queries.NewPreviewDeliveryQuery(customerID, address.ID())
		require.NoError(t, err)

		resp, err := handler.Handle(ctx, query)

		require.NoError(t, err)
		assert.True(t, central.ID().IsEqual(resp.RestaurantID))
		assert.Equal(t, "Central", resp.RestaurantName)
		assert.True(t, resp.DistanceKM.IsPositive())
		// one rounded-up kilometre clears the 650 m threshold of the default table
		assert.True(t, decimal.NewFromInt(15).Equal(resp.DeliveryFee), resp.DeliveryFee.String())
		addresses.AssertExpectations(t)
		restaurants.AssertExpectations(t)
	})

	t.Run("hides addresses of other customers", func(t *testing.T) {
		addresses, restaurants, handler := previewFixture(t)
		address, err := customer.NewAddress(kernel.NewUUID(), kernel.NewUUID(), "Almaty", "Dostyk 5",
			location(t, 43.2420, 76.8950))
		require.NoError(t, err)
		addresses.On("GetAddress", ctx, address.ID()).Return(address, nil).Once()

		query, err := queries.NewPreviewDeliveryQuery(customerID, address.ID())
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		restaurants.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("address without coordinates", func(t *testing.T) {
		addresses, restaurants, handler := previewFixture(t)
		address, err := customer.NewAddress(kernel.NewUUID(), customerID, "Almaty", "unknown", nil)
		require.NoError(t, err)
		addresses.On("GetAddress", ctx, address.ID()).Return(address, nil).Once()
		restaurants.On("List", ctx).Return([]*restaurant.Restaurant{central}, nil).Once()

		query, err := queries.NewPreviewDeliveryQuery(customerID, address.ID())
		require.NoError(t, err)

		_, err = handler.Handle(ctx, query)

		require.ErrorIs(t, err, errs.ErrMissingCoordinates)
	})

	t.Run("not constructed", func(t *testing.T) {
		_, _, handler := previewFixture(t)

		_, err := handler.Handle(ctx, queries.PreviewDeliveryQuery{})

		require.ErrorIs(t, err, queries.ErrPreviewDeliveryQueryIsNotConstructed)
	})
}
