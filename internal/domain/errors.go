package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories
// translate storage-level conditions (sql.ErrNoRows, unique violations)
// into these; controllers map them onto HTTP status codes.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlotConflict is returned when the target (date, time) is already
	// occupied by a different application, at create or relocate time.
	ErrSlotConflict = errors.New("slot already occupied")

	// ErrInvalidInput is returned when a request is malformed or violates
	// a business rule before any storage access.
	ErrInvalidInput = errors.New("invalid input")
)
