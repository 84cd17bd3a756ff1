// Package errs provides standardized error types for the shopping application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for every failure kind the order lifecycle reports:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - ObjectNotFoundError: an order or product cannot be found
//   - InvalidStateError: an operation is not allowed in the current order status
//   - AccessDeniedError: a caller acts on an order it does not own
//   - InsufficientStockError: inventory cannot satisfy a requested quantity
//   - ContentionError: a resource stayed locked past the wait budget; the call may be retried
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works on the kind
package errs
