package cmd

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/adapters/out/freedompay"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/customerrepo"
	"fulfillment/internal/adapters/out/postgres/pgnotify"
	"fulfillment/internal/adapters/out/postgres/restaurantrepo"
	"fulfillment/internal/adapters/out/postgres/settingsrepo"
	"fulfillment/internal/adapters/out/push"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/configuration"
	"fulfillment/internal/core/application/hooks"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/broadcast"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	clock      clock.Clock
	uowFactory *postgres.GormUnitOfWorkFactory
	settings   *configuration.Service
	gateway    ports.PaymentGateway
	router     services.FulfillmentRouter
	metrics    *metrics.Registry
	hub        *broadcast.Hub
	redis      *goredis.Client
	kafka      *kafka.Publisher
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:      cfg,
		gormDB:   gormDB,
		logger:   logger,
		clock:    clock.New(loc),
		settings: configuration.NewService(settingsrepo.NewGormSettingsStore(gormDB), logger),
		gateway:  freedompay.NewClient(nil, logger),
		router:   services.NewFulfillmentRouter(nil),
		metrics:  metrics.NewRegistry(cfg.ServiceName),
		hub:      broadcast.NewHub(broadcast.DefaultBuffer),
	}

	publishers := events.Fanout{pgnotify.NewPublisher(gormDB, pgnotify.DefaultChannel)}
	if client := kafka.NewClient(cfg.KafkaBrokers); client.Enabled() {
		topic := cfg.KafkaTopic
		if topic == "" {
			topic = kafka.DefaultTopic
		}
		c.kafka = kafka.NewPublisher(client.NewWriter(topic))
		publishers = append(publishers, c.kafka)
	}
	if cfg.RedisAddr != "" {
		c.redis = redis.NewClient(cfg.RedisAddr)
	}

	staff := customerrepo.NewGormCustomerRepository(gormDB)
	notifier := push.NewLogNotifier(logger)
	dispatcher := hooks.NewDispatcher(logger, hooks.DefaultTimeout,
		hooks.NewOwnerNotification(staff, notifier),
		hooks.NewCollectorBroadcast(staff, notifier),
		hooks.NewCourierBroadcast(staff, notifier),
		hooks.NewStatusMetrics(c.metrics.Orders),
		hooks.NewEventPublication(publishers),
	)
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, dispatcher)

	return c, nil
}

// Settings serves the business settings snapshot; call Load before serving.
func (c *CompositionRoot) Settings() *configuration.Service {
	return c.settings
}

func (c *CompositionRoot) Hub() *broadcast.Hub {
	return c.hub
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var placement commands.PlacementUoWFactory = FuncPlacementUoWFactory(func() commands.PlacementUoW {
		return c.uowFactory.New()
	})
	return commands.NewCreateOrderCommandHandler(
		placement, c.orderUoWFactory(), c.router, c.settings, c.gateway, c.clock, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.LedgerUoWFactory = FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.New()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler(
	transitions *commands.TransitionOrderCommandHandler,
) commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(transitions)
}

func (c *CompositionRoot) CreatePollPaymentCommandHandler() commands.PollPaymentCommandHandler {
	return commands.NewPollPaymentCommandHandler(
		c.orderUoWFactory(), c.gateway, c.settings, c.cfg.PaymentMaxAttempts, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPendingPaymentsQueryHandler() queries.ListPendingPaymentsQueryHandler {
	return queries.NewListPendingPaymentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreatePreviewDeliveryQueryHandler() queries.PreviewDeliveryQueryHandler {
	return queries.NewPreviewDeliveryQueryHandler(
		customerrepo.NewGormAddressDirectory(c.gormDB),
		restaurantrepo.NewGormRestaurantRepository(c.gormDB),
		c.router,
		c.settings,
		c.clock,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	lister := c.CreateListPendingPaymentsQueryHandler()
	poller := c.CreatePollPaymentCommandHandler()
	settlement := jobs.NewPaymentSettlementJob(
		lister, &poller, c.metrics.Orders, c.cfg.SettlementSchedule, c.logger)
	refresh := jobs.NewSettingsRefreshJob(c.settings, c.cfg.SettingsRefreshSchedule, c.logger)
	return jobs.NewJobManager(settlement, refresh)
}

func (c *CompositionRoot) CreatePgNotifyListener() *pgnotify.Listener {
	return pgnotify.NewListener(c.cfg.DSN(), pgnotify.DefaultChannel, c.hub, c.logger)
}

func (c *CompositionRoot) CreateServer() *http.Server {
	create := c.CreateCreateOrderCommandHandler()
	transition := c.CreateTransitionOrderCommandHandler()
	cancel := c.CreateCancelOrderCommandHandler(&transition)
	return http.NewServer(http.Handlers{
		CreateOrder:     &create,
		TransitionOrder: &transition,
		CancelOrder:     &cancel,
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
		PreviewDelivery: c.CreatePreviewDeliveryQueryHandler(),
		Settings:        c.settings,
		Events:          c.hub,
	})
}

func (c *CompositionRoot) CreateRouterConfig() http.RouterConfig {
	cfg := http.RouterConfig{
		ServiceName: c.cfg.ServiceName,
		JWTSecret:   []byte(c.cfg.JWTSecret),
		Metrics:     c.metrics,
		RateLimit:   c.cfg.RateLimit,
		RateBurst:   c.cfg.RateBurst,
		Logger:      c.logger,
	}
	if c.redis != nil {
		cfg.Idempotency = redis.NewIdempotencyStore(c.redis, c.cfg.ServiceName, redis.DefaultTTL)
	}
	return cfg
}

// Close releases the broker and cache connections and ends live streams.
func (c *CompositionRoot) Close() error {
	c.hub.Close()

	var errList []error
	if c.kafka != nil {
		errList = append(errList, c.kafka.Close())
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.New()
	})
}

// StartListener feeds the live stream until ctx is cancelled.
func (c *CompositionRoot) StartListener(ctx context.Context) {
	listener := c.CreatePgNotifyListener()
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.ErrorContext(ctx, "order event listener stopped", "error", err)
		}
	}()
}

type FuncPlacementUoWFactory func() commands.PlacementUoW

func (f FuncPlacementUoWFactory) Create() commands.PlacementUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
