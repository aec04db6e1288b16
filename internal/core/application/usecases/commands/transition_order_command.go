package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves an order to a target status on behalf of an actor.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   order.Actor
	proof   *order.Proof

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand accepts an optional delivery proof, used only when
// a courier completes a delivery.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	proof *order.Proof,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		target: target,
		actor:  actor,
		proof:  proof,
		guard:  guard.NewConstructorGuard(),
	}

	var errList []error
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order_id", err))
	}
	if err := target.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := actor.ID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("actor", err))
	}
	if len(errList) > 0 {
		return TransitionOrderCommand{}, errors.Join(errList...)
	}

	cmd.orderID = orderID
	return cmd, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderCommand) Target() order.Status { return c.target }
func (c TransitionOrderCommand) Actor() order.Actor { return c.actor }
func (c TransitionOrderCommand) Proof() *order.Proof { return c.proof }
