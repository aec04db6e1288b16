// Package hooks runs the side effects that follow an order status change:
// push notifications and the live dashboard broadcast. Hooks run after the
// change is committed; a failing hook is logged and never reaches the caller.
package hooks

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

const DefaultTimeout = 5 * time.Second

// Hook reacts to one status change.
type Hook interface {
	Name() string
	Handle(ctx context.Context, event order.StatusChanged) error
}

// Dispatcher invokes the hook list for every event, in order.
type Dispatcher struct {
	hooks   []Hook
	timeout time.Duration
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger, timeout time.Duration, hooks ...Hook) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		hooks:   hooks,
		timeout: timeout,
		logger:  logger.With("component", "hooks"),
	}
}

// Dispatch runs every hook for every event. It returns once all hooks have
// finished or timed out. The caller's cancellation does not abort the hooks.
func (d *Dispatcher) Dispatch(ctx context.Context, events []order.StatusChanged) {
	base := context.WithoutCancel(ctx)
	for _, event := range events {
		for _, hook := range d.hooks {
			d.run(base, hook, event)
		}
	}
}

func (d *Dispatcher) run(base context.Context, hook Hook, event order.StatusChanged) {
	ctx, cancel := context.WithTimeout(base, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "hook panicked",
				"hook", hook.Name(), "order_id", event.OrderID.String(), "panic", r)
		}
	}()

	if err := hook.Handle(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "hook failed",
			"hook", hook.Name(),
			"order_id", event.OrderID.String(),
			"status", event.NewStatus.String(),
			"error", err)
	}
}
