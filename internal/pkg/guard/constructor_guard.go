// Package guard provides ConstructorGuard, a marker embedded into commands,
// queries and value objects so that a zero value can be told apart from one
// built through its constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded by value. Only NewConstructorGuard produces a
// guard that passes validation.
//
//	type PreviewDeliveryQuery struct {
//	    addressID kernel.UUID
//	    guard     guard.ConstructorGuard
//	}
//
//	func (q PreviewDeliveryQuery) Validate() error {
//	    return q.guard.Validate(ErrPreviewDeliveryQueryIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard marks the owning object as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard was not created by NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
