package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// Fulfillment is either a PickupRequest or a DeliveryRequest.
type Fulfillment interface {
	isFulfillment()
}

// PickupRequest collects the order at a chosen restaurant.
type PickupRequest struct {
	RestaurantID kernel.UUID
}

// DeliveryRequest brings the order to one of the customer's addresses.
type DeliveryRequest struct {
	AddressID kernel.UUID
}

func (PickupRequest) isFulfillment() {}
func (DeliveryRequest) isFulfillment() {}

// LineRequest is one cart line.
type LineRequest struct {
	ProductSizeID kernel.UUID
	Quantity      int
	ToppingIDs    []kernel.UUID
	IsBonus       bool
}

// CreateOrderInput is the validated-on-construction payload of CreateOrderCommand.
type CreateOrderInput struct {
	OrderID       kernel.UUID
	CustomerID    kernel.UUID
	Fulfillment   Fulfillment
	Lines         []LineRequest
	PaymentMethod order.PaymentMethod
	PromoCode     string
	BonusRedeemed decimal.Decimal
	Source        order.Source
	Comment       string
	Change        int
}

// CreateOrderCommand places an order from a cart.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderInput{
//	    OrderID:       kernel.NewUUID(),
//	    CustomerID:    userID,
//	    Fulfillment:   DeliveryRequest{AddressID: addressID},
//	    Lines:         []LineRequest{{ProductSizeID: sizeID, Quantity: 2}},
//	    PaymentMethod: order.PaymentCard,
//	})
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	in    CreateOrderInput
	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(in CreateOrderInput) (CreateOrderCommand, error) {
	in.PromoCode = strings.TrimSpace(in.PromoCode)
	if in.Source == "" {
		in.Source = order.SourceUnknown
	}

	if err := errors.Join(
		validateIDs(in),
		validateFulfillment(in.Fulfillment),
		validateLines(in.Lines),
		validatePayment(in),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{in: in, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.in.OrderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.in.CustomerID }
func (c CreateOrderCommand) Fulfillment() Fulfillment { return c.in.Fulfillment }
func (c CreateOrderCommand) Lines() []LineRequest { return c.in.Lines }
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod { return c.in.PaymentMethod }
func (c CreateOrderCommand) BonusRedeemed() decimal.Decimal { return c.in.BonusRedeemed }
func (c CreateOrderCommand) Source() order.Source { return c.in.Source }
func (c CreateOrderCommand) Comment() string { return c.in.Comment }
func (c CreateOrderCommand) Change() int { return c.in.Change }

// PromoCode is nil when no code was entered.
func (c CreateOrderCommand) PromoCode() *string {
	if c.in.PromoCode == "" {
		return nil
	}
	code := c.in.PromoCode
	return &code
}

// IsPickup reports the fulfillment mode.
func (c CreateOrderCommand) IsPickup() bool {
	_, ok := c.in.Fulfillment.(PickupRequest)
	return ok
}

func validateIDs(in CreateOrderInput) error {
	var errList []error
	if err := in.OrderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order_id", err))
	}
	if err := in.CustomerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("customer_id", err))
	}
	return errors.Join(errList...)
}

func validateFulfillment(f Fulfillment) error {
	switch v := f.(type) {
	case PickupRequest:
		if err := v.RestaurantID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("restaurant_id", err)
		}
	case DeliveryRequest:
		if err := v.AddressID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("address_id", err)
		}
	default:
		return errs.NewValueIsRequiredError("fulfillment")
	}
	return nil
}

func validateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	var errList []error
	for i, l := range lines {
		if err := l.ProductSizeID.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].product_size_id", i), err))
		}
		if l.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("%d is not greater than 0", l.Quantity)))
		}
	}
	return errors.Join(errList...)
}

func validatePayment(in CreateOrderInput) error {
	var errList []error
	if _, err := order.ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		errList = append(errList, err)
	}
	if in.BonusRedeemed.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("bonus_redeemed",
			fmt.Errorf("%s is negative", in.BonusRedeemed)))
	}
	if in.Change < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("change", fmt.Errorf("%d is negative", in.Change)))
	}
	return errors.Join(errList...)
}
