package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	api "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	secret = []byte("test-secret")
	now    = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
)

type CreateOrderMock struct{ mock.Mock }

func (m *CreateOrderMock) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type TransitionOrderMock struct{ mock.Mock }

func (m *TransitionOrderMock) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type CancelOrderMock struct{ mock.Mock }

func (m *CancelOrderMock) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type GetOrderMock struct{ mock.Mock }

func (m *GetOrderMock) Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	v, _ := args.Get(0).(*queries.GetOrderQueryResponse)
	return v, args.Error(1)
}

type ListOrdersMock struct{ mock.Mock }

func (m *ListOrdersMock) Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	v, _ := args.Get(0).([]queries.ListOrdersQueryResponse)
	return v, args.Error(1)
}

type PreviewDeliveryMock struct{ mock.Mock }

func (m *PreviewDeliveryMock) Handle(
	ctx context.Context,
	query queries.PreviewDeliveryQuery,
) (queries.PreviewDeliveryQueryResponse, error) {
	args := m.Called(ctx, query)
	v, _ := args.Get(0).(queries.PreviewDeliveryQueryResponse)
	return v, args.Error(1)
}

type SettingsMock struct{ mock.Mock }

func (m *SettingsMock) Reload(ctx context.Context) (settings.Snapshot, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(settings.Snapshot)
	return v, args.Error(1)
}

// channelSource hands out one prepared channel.
type channelSource struct {
	ch chan []byte
}

func (s channelSource) Subscribe() (<-chan []byte, func()) {
	return s.ch, func() {}
}

// memoryStore is an in-process IdempotencyStore.
type memoryStore struct {
	mu       sync.Mutex
	entries  map[string]redis.StoredResponse
	inFlight map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]redis.StoredResponse{}, inFlight: map[string]bool{}}
}

func (s *memoryStore) Lookup(_ context.Context, op, key string) (redis.StoredResponse, bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.entries[op+key]
	return resp, ok, s.inFlight[op+key], nil
}

func (s *memoryStore) Reserve(_ context.Context, op, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[op+key] {
		return false, nil
	}
	s.inFlight[op+key] = true
	return true, nil
}

func (s *memoryStore) Save(_ context.Context, op, key string, resp redis.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, op+key)
	s.entries[op+key] = resp
	return nil
}

func (s *memoryStore) Release(_ context.Context, op, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, op+key)
	return nil
}

type fixture struct {
	create     *CreateOrderMock
	transition *TransitionOrderMock
	cancel     *CancelOrderMock
	get        *GetOrderMock
	list       *ListOrdersMock
	preview    *PreviewDeliveryMock
	settings   *SettingsMock
	events     chan []byte
	store      *memoryStore
	registry   *metrics.Registry
	echo       *echo.Echo
}

func newFixture(t *testing.T, options ...func(*api.RouterConfig)) *fixture {
	t.Helper()

	f := &fixture{
		create:     &CreateOrderMock{},
		transition: &TransitionOrderMock{},
		cancel:     &CancelOrderMock{},
		get:        &GetOrderMock{},
		list:       &ListOrdersMock{},
		preview:    &PreviewDeliveryMock{},
		settings:   &SettingsMock{},
		events:     make(chan []byte, 8),
		store:      newMemoryStore(),
		registry:   metrics.NewRegistry("fulfillment"),
	}
	server := api.NewServer(api.Handlers{
		CreateOrder:     f.create,
		TransitionOrder: f.transition,
		CancelOrder:     f.cancel,
		GetOrder:        f.get,
		ListOrders:      f.list,
		PreviewDelivery: f.preview,
		Settings:        f.settings,
		Events:          channelSource{ch: f.events},
	})

	cfg := api.RouterConfig{
		ServiceName: "fulfillment",
		JWTSecret:   secret,
		Idempotency: f.store,
		Metrics:     f.registry,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&cfg)
	}
	e, err := api.NewRouter(context.Background(), server, cfg)
	require.NoError(t, err)
	f.echo = e

	t.Cleanup(func() {
		f.create.AssertExpectations(t)
		f.transition.AssertExpectations(t)
		f.cancel.AssertExpectations(t)
		f.get.AssertExpectations(t)
		f.list.AssertExpectations(t)
		f.preview.AssertExpectations(t)
		f.settings.AssertExpectations(t)
	})
	return f
}

func token(t *testing.T, id kernel.UUID, role customer.Role) string {
	t.Helper()

	claims := api.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(method, path, bearer, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// pickupOrder is a restored pending pickup order of one 100 priced piece.
func pickupOrder(t *testing.T, customerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	size, err := catalog.NewProductSize(kernel.NewUUID(), kernel.NewUUID(), "1 pc",
		catalog.Prices{Regular: dec("100")}, dec("1"), catalog.UnitPiece)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), size, 1, nil, false)
	require.NoError(t, err)
	delivery, err := order.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:               kernel.NewUUID(),
		CustomerID:       customerID,
		Delivery:         delivery,
		Items:            []*order.Item{item},
		CreatedAt:        now,
		TotalAmount:      dec("100"),
		TotalBonusAmount: dec("3"),
		PaymentMethod:    order.PaymentCash,
		PaymentStatus:    order.PaymentPending,
		Status:           status,
		Source:           order.SourceWeb,
		IsPickup:         true,
	})
	require.NoError(t, err)
	return o
}
