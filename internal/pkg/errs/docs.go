// Package errs provides standardized error types for the fulfillment engine.
//
// The package includes two groups of errors:
//   - validation errors (ValueIsRequiredError, ValueIsInvalidError,
//     ValueIsOutOfRangeError, ObjectNotFoundError, VersionIsInvalidError)
//   - business errors raised by the order pipeline (InsufficientStockError,
//     InsufficientBonusError, RoutingError, InvalidStateTransitionError,
//     ForbiddenError, PaymentProviderError)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// KindOf maps any error to a Kind, the value exposed to API clients.
package errs
