package models

import "errors"

// Sentinel errors shared by the storage backends and the session
var (
	// ErrInvalid is returned when a value falls outside a closed enumeration or fails validation
	ErrInvalid       = errors.New("invalid value")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotConfigured is returned when an optional integration lacks credentials or settings
	ErrNotConfigured = errors.New("not configured")
)
