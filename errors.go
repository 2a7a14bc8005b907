package activedb

import "github.com/MasonSandau/ActiveDB/engine"

// The engine's error taxonomy, re-exported so most callers only need this
// package. All errors are returned as values; nothing in normal operation
// panics across the API boundary.
var (
	ErrTableExists           = engine.ErrTableExists
	ErrTableNotFound         = engine.ErrTableNotFound
	ErrRowExists             = engine.ErrRowExists
	ErrRowNotFound           = engine.ErrRowNotFound
	ErrMissingField          = engine.ErrMissingField
	ErrReorganizationRunning = engine.ErrReorganizationRunning
)
