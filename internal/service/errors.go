package service

import "github.com/pkg/errors"

var (
	// ErrNotFound matches errors for tasks the backend does not know.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput matches errors for requests the backend rejected as malformed.
	ErrInvalidInput = errors.New("invalid input")
)
