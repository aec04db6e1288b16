package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInsufficientBonus      = errors.New("insufficient bonus")
	ErrNoAvailableRestaurant  = errors.New("no available restaurant")
	ErrRestaurantClosed       = errors.New("restaurant is closed")
	ErrMissingCoordinates     = errors.New("missing coordinates")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrForbidden              = errors.New("forbidden")
	ErrPaymentProvider        = errors.New("payment provider error")
	ErrPaymentIncomplete      = errors.New("order placed, payment not set up")
)

// InsufficientStockError is returned when a stock deduction would drive a
// product quantity below zero.
type InsufficientStockError struct {
	ProductID string
	Amount    string
}

func NewInsufficientStockError(productID string, amount fmt.Stringer) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Amount: amount.String()}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s, requested %s", ErrInsufficientStock, e.ProductID, e.Amount)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// InsufficientBonusError is returned when a redemption exceeds the balance.
type InsufficientBonusError struct {
	UserID    string
	Requested string
	Balance   string
}

func NewInsufficientBonusError(userID string, requested, balance fmt.Stringer) *InsufficientBonusError {
	e := &InsufficientBonusError{UserID: userID, Requested: requested.String()}
	if balance != nil {
		e.Balance = balance.String()
	}
	return e
}

func (e *InsufficientBonusError) Error() string {
	if e.Balance != "" {
		return fmt.Sprintf("%s: user %s, requested %s, balance %s",
			ErrInsufficientBonus, e.UserID, e.Requested, e.Balance)
	}
	return fmt.Sprintf("%s: user %s, requested %s", ErrInsufficientBonus, e.UserID, e.Requested)
}

func (e *InsufficientBonusError) Unwrap() error {
	return ErrInsufficientBonus
}

// RoutingError covers the fulfillment router failures. Sentinel tells which one.
type RoutingError struct {
	Sentinel     error
	RestaurantID string
}

func NewNoAvailableRestaurantError() *RoutingError {
	return &RoutingError{Sentinel: ErrNoAvailableRestaurant}
}

func NewRestaurantClosedError(restaurantID string) *RoutingError {
	return &RoutingError{Sentinel: ErrRestaurantClosed, RestaurantID: restaurantID}
}

func NewMissingCoordinatesError() *RoutingError {
	return &RoutingError{Sentinel: ErrMissingCoordinates}
}

func (e *RoutingError) Error() string {
	if e.RestaurantID != "" {
		return fmt.Sprintf("%s: %s", e.Sentinel, e.RestaurantID)
	}
	return e.Sentinel.Error()
}

func (e *RoutingError) Unwrap() error {
	return e.Sentinel
}

// InvalidStateTransitionError reports a transition whose precondition does not hold.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func NewInvalidStateTransitionError(from, to fmt.Stringer) *InvalidStateTransitionError {
	return &InvalidStateTransitionError{From: from.String(), To: to.String()}
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s: from %s to %s", ErrInvalidStateTransition, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// ForbiddenError reports an actor lacking the role or ownership for an action.
type ForbiddenError struct {
	Action string
	Reason string
}

func NewForbiddenError(action, reason string) *ForbiddenError {
	return &ForbiddenError{Action: action, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrForbidden, e.Action, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// PaymentProviderError wraps a failed call to the payment gateway.
type PaymentProviderError struct {
	Operation string
	Cause     error
}

func NewPaymentProviderError(operation string, cause error) *PaymentProviderError {
	return &PaymentProviderError{Operation: operation, Cause: cause}
}

func (e *PaymentProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPaymentProvider, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPaymentProvider, e.Operation)
}

func (e *PaymentProviderError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPaymentProvider}
	}
	return []error{ErrPaymentProvider, e.Cause}
}

// PaymentIncompleteError is returned with an order that is already committed
// when its card payment could not be set up afterwards. Stock and bonus are
// applied; the settlement job keeps polling the payment.
type PaymentIncompleteError struct {
	OrderID string
	Cause   error
}

func NewPaymentIncompleteError(orderID string, cause error) *PaymentIncompleteError {
	return &PaymentIncompleteError{OrderID: orderID, Cause: cause}
}

func (e *PaymentIncompleteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: order %s (cause: %v)", ErrPaymentIncomplete, e.OrderID, e.Cause)
	}
	return fmt.Sprintf("%s: order %s", ErrPaymentIncomplete, e.OrderID)
}

func (e *PaymentIncompleteError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPaymentIncomplete}
	}
	return []error{ErrPaymentIncomplete, e.Cause}
}
