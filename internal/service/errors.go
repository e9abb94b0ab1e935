package service

import "errors"

// Every operation resolves to one of these kinds; handlers map them to HTTP
// statuses. Wrap with fmt.Errorf("%w: ...") to attach detail.
var (
	// ErrNotFound - a referenced order, product or payment type does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation - the request is well-formed but not acceptable; nothing
	// was written.
	ErrValidation = errors.New("validation failed")
	// ErrConflict - a concurrent writer changed the row since it was read; the
	// whole operation rolled back and must be retried by the caller.
	ErrConflict = errors.New("conflict")
	// ErrIntegrity - the delete would orphan rows that reference the target.
	ErrIntegrity = errors.New("integrity violation")
)
