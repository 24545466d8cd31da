package app

import "github.com/khrees2412/pipeliner/pkg/models"

// Sentinel errors for common application errors. They alias the model
// package's values so errors.Is works across every layer.
var (
	ErrNotFound        = models.ErrNotFound
	ErrInvalidArgument = models.ErrInvalid
	ErrAlreadyExists   = models.ErrAlreadyExists
	ErrNotConfigured   = models.ErrNotConfigured
)
