package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidTransition is returned when a job status change is not
	// permitted from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPermissionDenied is returned when a role lacks permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write raced another writer or
	// violates a uniqueness rule
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when sign-in fails
	ErrInvalidCredentials = errors.New("invalid credentials")
)
