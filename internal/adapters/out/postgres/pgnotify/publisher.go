// Package pgnotify carries order status changes over PostgreSQL
// LISTEN/NOTIFY, so every instance of the service can feed its live dashboard
// subscribers whichever instance committed the change.
package pgnotify

import (
	"context"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

const DefaultChannel = "order_events"

// Publisher implements ports.EventPublisher with pg_notify.
type Publisher struct {
	db      *gorm.DB
	channel string
}

func NewPublisher(db *gorm.DB, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{db: db, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, event order.StatusChanged) error {
	data, err := events.NewMessage(event).Marshal()
	if err != nil {
		return err
	}
	return p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", p.channel, string(data)).Error
}
