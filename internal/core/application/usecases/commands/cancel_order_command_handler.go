package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels an order through the transition handler,
// so stock and bonus compensation follow the same path.
type CancelOrderCommandHandler struct {
	transitions *TransitionOrderCommandHandler
}

func NewCancelOrderCommandHandler(transitions *TransitionOrderCommandHandler) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{transitions: transitions}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	transition, err := NewTransitionOrderCommand(cmd.OrderID(), order.Cancelled, cmd.Actor(), nil)
	if err != nil {
		return nil, err
	}
	return h.transitions.Handle(ctx, transition)
}
