package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2025, 3, 10, 15, 0, 0, 0, time.FixedZone("ALMT", 5*3600))
	event := order.StatusChanged{
		OrderID:    kernel.NewUUID(),
		CustomerID: kernel.NewUUID(),
		OldStatus:  order.Unknown,
		NewStatus:  order.Pending,
		IsPickup:   true,
		Timestamp:  at,
	}

	t.Run("creation", func(t *testing.T) {
		msg := events.NewMessage(event)

		assert.Equal(t, events.TypeOrderCreated, msg.Type)
		assert.Empty(t, msg.OldStatus)
		assert.Equal(t, "pending", msg.NewStatus)
		assert.Equal(t, time.UTC, msg.Timestamp.Location())
		assert.NotEmpty(t, msg.EventID)
	})

	t.Run("transition round-trips through JSON", func(t *testing.T) {
		changed := event
		changed.OldStatus, changed.NewStatus = order.Ready, order.Completed

		data, err := events.NewMessage(changed).Marshal()
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, events.TypeOrderStatusChanged, decoded["type"])
		assert.Equal(t, "ready", decoded["old_status"])
		assert.Equal(t, "completed", decoded["new_status"])
		assert.Equal(t, event.OrderID.String(), decoded["order_id"])
		assert.Equal(t, true, decoded["is_pickup"])
	})
}

type publisherFunc func(ctx context.Context, event order.StatusChanged) error

func (f publisherFunc) Publish(ctx context.Context, event order.StatusChanged) error {
	return f(ctx, event)
}

func TestFanout_Publish(t *testing.T) {
	var calls int
	ok := publisherFunc(func(context.Context, order.StatusChanged) error { calls++; return nil })
	broken := errors.New("broker down")
	failing := publisherFunc(func(context.Context, order.StatusChanged) error { calls++; return broken })

	err := events.Fanout{failing, ok}.Publish(context.Background(), order.StatusChanged{})

	require.ErrorIs(t, err, broken)
	assert.Equal(t, 2, calls, "a failing publisher does not stop the others")
}
