package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// book does not exist in the catalog.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, loan period out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation contradicts current circulation
// state, such as checking out a book that is already borrowed.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
