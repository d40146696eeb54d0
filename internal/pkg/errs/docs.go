// Package errs provides standardized error types for the food-delivery
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package includes error types for the failure kinds the core exposes:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError:
//     malformed or missing input (empty cart, bad rating range, ...)
//   - ObjectNotFoundError: order, assignment, or shop absent
//   - NotAuthorizedError: actor not entitled to act on the resource
//   - InvalidStateError: operation not legal in the aggregate's current state
//   - UpstreamFailureError: a required collaborator call failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is resolves to the sentinel
//
// The transport layer maps sentinels to response status codes, which keeps
// error classification in one place.
package errs
