package hooks

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// StatusRecorder counts committed status changes.
type StatusRecorder interface {
	StatusChanged(from, to string, pickup bool)
}

type StatusMetrics struct {
	recorder StatusRecorder
}

func NewStatusMetrics(recorder StatusRecorder) StatusMetrics {
	return StatusMetrics{recorder: recorder}
}

func (StatusMetrics) Name() string { return "status_metrics" }

// Handle records creation with an empty origin status.
func (h StatusMetrics) Handle(_ context.Context, event order.StatusChanged) error {
	from := ""
	if event.OldStatus != order.Unknown {
		from = event.OldStatus.String()
	}
	h.recorder.StatusChanged(from, event.NewStatus.String(), event.IsPickup)
	return nil
}
