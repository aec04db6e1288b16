package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/domain/pricing"
	"fulfillment/internal/core/ports"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) GetSizes(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*catalog.ProductSize, error) {
	args := m.Called(ctx, ids)
	sizes, _ := args.Get(0).(map[kernel.UUID]*catalog.ProductSize)
	return sizes, args.Error(1)
}

func (m *MockCatalogRepository) GetToppings(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Topping, error) {
	args := m.Called(ctx, ids)
	toppings, _ := args.Get(0).(map[kernel.UUID]catalog.Topping)
	return toppings, args.Error(1)
}

func (m *MockCatalogRepository) DeductStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, productID, amount.String()).Error(0)
}

func (m *MockCatalogRepository) RestoreStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, productID, amount.String()).Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) DebitBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, id, amount.String()).Error(0)
}

func (m *MockCustomerRepository) CreditBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	return m.Called(ctx, id, amount.String()).Error(0)
}

func (m *MockCustomerRepository) TouchLastOrder(ctx context.Context, id kernel.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockRestaurantRepository struct{ mock.Mock }

func (m *MockRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*restaurant.Restaurant)
	return r, args.Error(1)
}

func (m *MockRestaurantRepository) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]*restaurant.Restaurant)
	return r, args.Error(1)
}

type MockPromoRepository struct{ mock.Mock }

func (m *MockPromoRepository) GetByCode(ctx context.Context, code string) (*promo.Code, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*promo.Code)
	return c, args.Error(1)
}

type MockAddressDirectory struct{ mock.Mock }

func (m *MockAddressDirectory) GetAddress(ctx context.Context, id kernel.UUID) (customer.Address, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(customer.Address)
	return a, args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Initiate(ctx context.Context, cfg settings.Payment, req ports.PaymentRequest) (string, error) {
	args := m.Called(ctx, cfg, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) Status(ctx context.Context, cfg settings.Payment, id kernel.UUID) (ports.PaymentState, error) {
	args := m.Called(ctx, cfg, id)
	return ports.PaymentState(args.String(0)), args.Error(1)
}

func (m *MockPaymentGateway) Cancel(ctx context.Context, cfg settings.Payment, id kernel.UUID) error {
	return m.Called(ctx, cfg, id).Error(0)
}

// MockUoW implements every unit of work flavour used by the handlers.
type MockUoW struct {
	mock.Mock
	orders      *MockOrderRepository
	catalog     *MockCatalogRepository
	customers   *MockCustomerRepository
	restaurants *MockRestaurantRepository
	promos      *MockPromoRepository
	addresses   *MockAddressDirectory
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:      &MockOrderRepository{},
		catalog:     &MockCatalogRepository{},
		customers:   &MockCustomerRepository{},
		restaurants: &MockRestaurantRepository{},
		promos:      &MockPromoRepository{},
		addresses:   &MockAddressDirectory{},
	}
}

func (m *MockUoW) Begin(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository { return m.orders }
func (m *MockUoW) CatalogRepository() ports.CatalogRepository { return m.catalog }
func (m *MockUoW) CustomerRepository() ports.CustomerRepository { return m.customers }
func (m *MockUoW) RestaurantRepository() ports.RestaurantRepository { return m.restaurants }
func (m *MockUoW) PromoRepository() ports.PromoRepository { return m.promos }
func (m *MockUoW) AddressDirectory() ports.AddressDirectory { return m.addresses }

func (m *MockUoW) assertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.catalog.AssertExpectations(t)
	m.customers.AssertExpectations(t)
	m.restaurants.AssertExpectations(t)
	m.promos.AssertExpectations(t)
	m.addresses.AssertExpectations(t)
}

// factories hand out the same MockUoW for every Create call.
type placementFactory struct{ uow *MockUoW }

func (f placementFactory) Create() commands.PlacementUoW { return f.uow }

type ledgerFactory struct{ uow *MockUoW }

func (f ledgerFactory) Create() commands.LedgerUoW { return f.uow }

type orderFactory struct{ uow *MockUoW }

func (f orderFactory) Create() commands.OrderUoW { return f.uow }

type staticSettings struct{ snapshot settings.Snapshot }

func (s staticSettings) Snapshot() settings.Snapshot { return s.snapshot }

func defaultSettings() staticSettings {
	return staticSettings{snapshot: settings.Snapshot{
		Cashback: settings.DefaultCashback(),
		Tariffs:  settings.DefaultDistanceTariffs(),
		Payment:  settings.Payment{BaseURL: "https://pay.test", MerchantID: "1", Secret: "s", Currency: "KZT"},
	}}
}

// placedOrder builds a pending delivery order of one 100 priced piece.
func placedOrder(t *testing.T, customerID kernel.UUID, method order.PaymentMethod, redeemed string) *order.Order {
	t.Helper()

	size, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "1 pc",
		catalog.Prices{Regular: dec("100")}, dec("1"), catalog.UnitPiece)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), size, 1, nil, false)
	require.NoError(t, err)

	delivery, err := order.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), lo.ToPtr(kernel.NewUUID()), decimal.Zero, dec("0.5"))
	require.NoError(t, err)
	quote, err := pricing.Calculate(pricing.Input{
		Lines: []pricing.Line{item.Line()}, BonusRedeemed: dec(redeemed), Source: settings.SourceWeb,
	}, settings.DefaultCashback(), now)
	require.NoError(t, err)

	o, err := order.NewOrder(order.Draft{
		ID: kernel.NewUUID(), CustomerID: customerID, Delivery: delivery, Items: []*order.Item{item},
		Quote: quote, PaymentMethod: method, Source: order.SourceWeb, CreatedAt: now,
	})
	require.NoError(t, err)
	o.PullEvents()
	return o
}
