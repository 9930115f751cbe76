package review

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
	ErrStoreFailure      = errors.New("store failure")
	ErrConflict          = errors.New("application was modified concurrently")
)
