package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// TransitionOrderCommandHandler drives the order state machine. The order row
// is locked for the whole transition; completion credits the earned bonus and
// cancellation returns stock and redeemed bonus in the same transaction.
type TransitionOrderCommandHandler struct {
	uowFactory LedgerUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewTransitionOrderCommandHandler(uowFactory LedgerUoWFactory, clk clock.Clock, logger *slog.Logger) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "transition_order"),
	}
}

func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	if err = o.Transition(cmd.Target(), cmd.Actor(), cmd.Proof(), h.clock.Now()); err != nil {
		return nil, err
	}

	switch o.Status() { //nolint:exhaustive // only statuses with ledger effects
	case order.Completed:
		err = applyCompletion(ctx, uow.CustomerRepository(), o)
	case order.Cancelled:
		err = compensateCancellation(ctx, uow.CatalogRepository(), uow.CustomerRepository(), o)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID().String(),
		"from", from.String(),
		"to", o.Status().String(),
		"actor_id", cmd.Actor().ID.String())
	return o, nil
}
