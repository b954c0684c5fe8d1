package storage

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("resource conflict (e.g., duplicate key)")

// ErrDuplicate marks a unique-constraint violation, e.g. a second
// application for the same (target, applicant) pair. It is a Conflict.
var ErrDuplicate = errors.New("duplicate resource")
