package services

import (
	"errors"
	"fmt"
)

// Define common service errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict") // e.g., duplicate email, state conflict
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidState       = errors.New("invalid state for operation")
)

// ErrDuplicateApplication specializes ErrConflict for a repeat submission
// by the same applicant to the same posting. errors.Is(err, ErrConflict)
// still holds.
var ErrDuplicateApplication = fmt.Errorf("%w: already applied", ErrConflict)
