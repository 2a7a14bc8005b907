// Package snapshot persists point-in-time copies of the table map.
//
// A snapshot is shaped as {table: {row key: {field: value}}}. Stores are
// external collaborators of the engine: the point-in-time copy is taken
// under the store lock, serialization and I/O happen outside it.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/MasonSandau/ActiveDB/engine"
)

// ErrNotFound is returned by Load when no snapshot has been written yet.
// Callers typically fall back to an empty store.
var ErrNotFound = errors.New("snapshot: not found")

// Store persists and retrieves table-map snapshots.
type Store interface {
	// Load reads the latest snapshot. It returns ErrNotFound when none
	// exists and a *DecodeError when the stored bytes cannot be decoded.
	Load(ctx context.Context) (engine.Snapshot, error)

	// Save writes the snapshot, replacing whatever was stored before.
	// Failures are reported as *WriteError; the in-memory store is never
	// affected.
	Save(ctx context.Context, snap engine.Snapshot) error
}

// DecodeError wraps a failure to decode persisted snapshot bytes.
type DecodeError struct {
	Source string
	cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("snapshot: decode %s: %v", e.Source, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// WriteError wraps a failure to persist a snapshot.
type WriteError struct {
	Source string
	cause  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("snapshot: write %s: %v", e.Source, e.cause)
}

func (e *WriteError) Unwrap() error { return e.cause }
