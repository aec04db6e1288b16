package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, actor order.Actor) (CancelOrderCommand, error) {
	if err := errors.Join(
		wrapRequired("order_id", orderID.Validate()),
		wrapRequired("actor", actor.ID.Validate()),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Actor() order.Actor { return c.actor }

func wrapRequired(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
