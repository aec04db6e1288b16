package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// Notifier delivers a push notification to a device token.
type Notifier interface {
	Notify(ctx context.Context, token, title, body string) error
}

// EventPublisher broadcasts order status changes to live dashboards.
type EventPublisher interface {
	Publish(ctx context.Context, event order.StatusChanged) error
}
