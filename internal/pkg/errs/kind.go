package errs

import "errors"

// Kind is the machine-checkable classification of an error returned to callers.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindNotFound               Kind = "not_found"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindInsufficientBonus      Kind = "insufficient_bonus"
	KindNoAvailableRestaurant  Kind = "no_available_restaurant"
	KindRestaurantClosed       Kind = "restaurant_closed"
	KindMissingCoordinates     Kind = "missing_coordinates"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindForbidden              Kind = "forbidden"
	KindPaymentProvider        Kind = "payment_provider"
	KindPaymentIncomplete      Kind = "payment_incomplete"
	KindConflict               Kind = "conflict"
	KindInternal               Kind = "internal"
)

var kindOrder = []struct {
	sentinel error
	kind     Kind
}{
	{ErrPaymentIncomplete, KindPaymentIncomplete},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrInsufficientBonus, KindInsufficientBonus},
	{ErrNoAvailableRestaurant, KindNoAvailableRestaurant},
	{ErrRestaurantClosed, KindRestaurantClosed},
	{ErrMissingCoordinates, KindMissingCoordinates},
	{ErrInvalidStateTransition, KindInvalidStateTransition},
	{ErrForbidden, KindForbidden},
	{ErrPaymentProvider, KindPaymentProvider},
	{ErrVersionIsInvalid, KindConflict},
	{ErrObjectNotFound, KindNotFound},
	{ErrValueIsRequired, KindValidation},
	{ErrValueIsInvalid, KindValidation},
	{ErrValueIsOutOfRange, KindValidation},
}

// KindOf classifies err. Errors joined with errors.Join are classified by the
// first recognised member, so a business failure wins over a validation one.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.sentinel) {
			return k.kind
		}
	}
	return KindInternal
}
