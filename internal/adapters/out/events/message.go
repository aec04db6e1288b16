// Package events defines the wire form of order status changes shared by the
// Kafka topic, the Postgres notification channel and the live dashboard stream.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// Message is the JSON payload of a status change.
type Message struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	IsPickup   bool      `json:"is_pickup"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewMessage(event order.StatusChanged) Message {
	msg := Message{
		EventID:    uuid.NewString(),
		Type:       TypeOrderStatusChanged,
		OrderID:    event.OrderID.String(),
		CustomerID: event.CustomerID.String(),
		NewStatus:  event.NewStatus.String(),
		IsPickup:   event.IsPickup,
		Timestamp:  event.Timestamp.UTC(),
	}
	if event.OldStatus == order.Unknown {
		msg.Type = TypeOrderCreated
	} else {
		msg.OldStatus = event.OldStatus.String()
	}
	return msg
}

func (m Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, event order.StatusChanged) error {
	var errList []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
