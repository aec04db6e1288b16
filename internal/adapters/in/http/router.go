package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const createOrderOperation = "create_order"

type RouterConfig struct {
	ServiceName string
	JWTSecret   []byte
	// Idempotency is optional; without it Idempotency-Key is ignored.
	Idempotency IdempotencyStore
	Metrics     *metrics.Registry
	// RateLimit is requests per second per client IP, zero disables limiting.
	RateLimit float64
	RateBurst int
	Logger    *slog.Logger
}

// NewRouter builds the echo instance serving the API, the Swagger UI and the
// operational endpoints.
func NewRouter(ctx context.Context, s *Server, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}
	validate, err := ValidateRequest(doc)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	if cfg.Metrics != nil {
		e.Use(RecordMetrics(cfg.Metrics.Server))
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(cfg.ServiceName)))
	e.Use(LogRequests(logger))
	if cfg.RateLimit > 0 {
		e.Use(rateLimiter(cfg.RateLimit, cfg.RateBurst))
	}

	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", Authenticate(cfg.JWTSecret))

	create := []echo.MiddlewareFunc{validate}
	if cfg.Idempotency != nil {
		create = append(create, Idempotent(cfg.Idempotency, createOrderOperation, logger))
	}
	api.POST("/orders", s.CreateOrder, create...)
	api.GET("/orders", s.ListOrders)
	api.POST("/orders/preview", s.PreviewDelivery, validate)
	api.GET("/orders/stream", s.StreamOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/transitions", s.TransitionOrder, validate)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/settings/reload", s.ReloadSettings, RequireAdmin)

	return e, nil
}

func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		Store: store,
		DenyHandler: func(_ echo.Context, _ string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded").SetInternal(err)
		},
	})
}
