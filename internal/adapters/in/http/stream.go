package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/adapters/out/events"

	"github.com/labstack/echo/v4"
)

var streamHeartbeat = 25 * time.Second

// StreamOrders handles GET /api/v1/orders/stream. Staff and admins receive
// every order event; customers receive the events of their own orders.
func (s *Server) StreamOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	seesAll := actor.IsStaff() || actor.IsAdmin()
	customerID := actor.ID.String()

	payloads, unsubscribe := s.handlers.Events.Subscribe()
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case payload, ok := <-payloads:
			if !ok {
				return nil
			}
			var msg events.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				continue
			}
			if !seesAll && msg.CustomerID != customerID {
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", msg.EventID, msg.Type, payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
