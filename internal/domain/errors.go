package domain

import "errors"

// Terminal error kinds produced by the engine. Callers discriminate with
// errors.Is; the HTTP layer maps each kind to a status class.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
