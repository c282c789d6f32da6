package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")

	// Configuration resolver errors.
	ErrUnknownKey   = errors.New("unknown configuration key")
	ErrTypeMismatch = errors.New("configuration value type mismatch")
)
