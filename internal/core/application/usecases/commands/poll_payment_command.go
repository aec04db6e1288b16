package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrPollPaymentCommandIsNotConstructed = errors.New(
	"PollPaymentCommand must be created via NewPollPaymentCommand constructor",
)

// PollPaymentCommand checks the settlement of one card order.
type PollPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewPollPaymentCommand(orderID kernel.UUID) (PollPaymentCommand, error) {
	if err := wrapRequired("order_id", orderID.Validate()); err != nil {
		return PollPaymentCommand{}, err
	}
	return PollPaymentCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c PollPaymentCommand) Validate() error {
	return c.guard.Validate(ErrPollPaymentCommandIsNotConstructed)
}

func (c PollPaymentCommand) OrderID() kernel.UUID { return c.orderID }
