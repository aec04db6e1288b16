package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// RecordMetrics counts requests and their latency per route template.
func RecordMetrics(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			handler := c.Path()
			if handler == "" {
				handler = "unmatched"
			}
			m.Requests.WithLabelValues(handler, strconv.Itoa(c.Response().Status)).Inc()
			m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}

// LogRequests writes one structured line per request.
func LogRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

// IdempotencyStore keeps one response per key and operation.
type IdempotencyStore interface {
	Lookup(ctx context.Context, operation, key string) (redis.StoredResponse, bool, bool, error)
	Reserve(ctx context.Context, operation, key string) (bool, error)
	Save(ctx context.Context, operation, key string, resp redis.StoredResponse) error
	Release(ctx context.Context, operation, key string) error
}

// Idempotent replays the stored response of a request repeated with the same
// Idempotency-Key by the same actor. A key whose first request is still
// running is rejected with a conflict. Internal failures are not stored, so
// the client may retry them. When the store is unreachable the request runs
// without replay protection.
func Idempotent(store IdempotencyStore, operation string, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(HeaderIdempotencyKey)
			if header == "" {
				return next(c)
			}
			if len(header) > maxIdempotencyKeyLen {
				return errs.NewValueIsOutOfRangeError(HeaderIdempotencyKey, len(header), 1, maxIdempotencyKeyLen)
			}

			actor, err := actorFrom(c)
			if err != nil {
				return err
			}
			key := actor.ID.String() + ":" + header
			ctx := c.Request().Context()

			stored, ok, inFlight, err := store.Lookup(ctx, operation, key)
			if err != nil {
				logger.WarnContext(ctx, "idempotency lookup failed", "operation", operation, "error", err)
				return next(c)
			}
			if ok {
				c.Response().Header().Set(headerReplayed, "true")
				return c.Blob(stored.Status, stored.ContentType, stored.Body)
			}
			if inFlight {
				return echo.NewHTTPError(http.StatusConflict, "a request with this idempotency key is in progress")
			}

			reserved, err := store.Reserve(ctx, operation, key)
			if err != nil {
				logger.WarnContext(ctx, "idempotency reserve failed", "operation", operation, "error", err)
				return next(c)
			}
			if !reserved {
				return echo.NewHTTPError(http.StatusConflict, "a request with this idempotency key is in progress")
			}

			recorder := &bodyRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = recorder
			if err = next(c); err != nil {
				c.Error(err)
			}

			detached := context.WithoutCancel(ctx)
			status := c.Response().Status
			if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
				if err := store.Release(detached, operation, key); err != nil {
					logger.WarnContext(ctx, "idempotency release failed", "operation", operation, "error", err)
				}
				return nil
			}

			resp := redis.StoredResponse{
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        recorder.body.Bytes(),
			}
			if err := store.Save(detached, operation, key, resp); err != nil {
				logger.WarnContext(ctx, "idempotency save failed", "operation", operation, "error", err)
			}
			return nil
		}
	}
}

type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
