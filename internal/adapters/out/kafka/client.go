// Package kafka publishes order status changes to a Kafka topic keyed by order
// id, so that all changes of one order land in one partition in order.
package kafka

import (
	"strings"

	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "order.changed"

type Client struct {
	Brokers []string
}

// NewClient parses a comma separated broker list. An empty list disables
// publishing.
func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
