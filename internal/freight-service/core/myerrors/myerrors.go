package myerrors

import "errors"

// The four kinds every operation can surface. Callers branch with errors.Is:
// conflicts are retryable with a fresh read, the rest need corrected input.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInsufficientCapacity = errors.New("insufficient truck capacity")
	ErrConcurrencyConflict  = errors.New("concurrent modification detected, please retry")
)

// ErrAlreadyExists is raised by storage on unique-constraint violations
// (duplicate transporter company name).
var ErrAlreadyExists = errors.New("resource already exists")

// ErrValidation marks malformed request input before any business rule runs.
var ErrValidation = errors.New("invalid request")
