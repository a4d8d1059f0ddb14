package model

import "errors"

var (
	// ErrValidation indicates invalid input; no state was changed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown timer id or an empty category.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable indicates a persistence read or write failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
