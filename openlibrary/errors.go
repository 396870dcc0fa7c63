package openlibrary

import "errors"

var (
	// ErrRequestFailed indicates Open Library answered with a non-200 status.
	ErrRequestFailed = errors.New("open library request failed")

	// ErrNotFound indicates the requested work does not exist.
	ErrNotFound = errors.New("open library resource not found")

	// ErrInvalidInterval indicates a negative request interval was configured.
	ErrInvalidInterval = errors.New("request interval must not be negative")
)
