package kafka

import (
	"context"
	"fmt"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event order.StatusChanged) error {
	msg := events.NewMessage(event)
	data, err := msg.Marshal()
	if err != nil {
		return err
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(msg.Type)}}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.OrderID),
		Value:   data,
		Time:    msg.Timestamp,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s for order %s: %w", msg.Type, msg.OrderID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
