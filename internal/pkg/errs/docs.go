// Package errs provides the error taxonomy of the split shipment service.
//
// Every error type follows the same pattern: a sentinel variable, a struct
// carrying the details, constructors with and without cause, and an Unwrap
// method returning the sentinel so callers can classify with errors.Is:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError:
//     single-field violations raised by value object constructors
//   - ValidationError: every violation found in one pass (allocation checks)
//   - ObjectNotFoundError: the entity is absent in the caller's tenant scope
//   - ConflictError: the request cannot be applied to the current state
//   - VersionIsInvalidError: a concurrent writer changed the row first
package errs
