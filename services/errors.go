package services

import "errors"

var (
	ErrValidation     = errors.New("validation failed")
	ErrUserNotFound   = errors.New("user not found")
	ErrAdNotFound     = errors.New("ad not found")
	ErrCooldownActive = errors.New("ad already clicked within 24 hours")
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
