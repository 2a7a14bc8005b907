package engine

import "errors"

var (
	// ErrTableExists is returned when adding a table whose name is taken.
	ErrTableExists = errors.New("table already exists")

	// ErrTableNotFound is returned when a named table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrRowExists is returned when inserting a duplicate row key.
	ErrRowExists = errors.New("row already exists")

	// ErrRowNotFound is returned when a row (or its table) does not exist.
	ErrRowNotFound = errors.New("row not found")

	// ErrMissingField is returned when a credential lookup finds the row
	// but not a usable secret field.
	ErrMissingField = errors.New("field not present")

	// ErrReorganizationRunning is returned when a reorganization is
	// requested while one is already in flight. Requests are rejected,
	// never queued.
	ErrReorganizationRunning = errors.New("reorganization already in progress")
)
