// services/errors.go
package services

import "errors"

var (
	// ErrNotFound is returned when the target entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller lacks the required
	// ownership or membership.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
)
