package activedb

import (
	"log/slog"

	"github.com/MasonSandau/ActiveDB/engine"
	"github.com/MasonSandau/ActiveDB/snapshot"
)

type options struct {
	logger        *Logger
	recorder      engine.Recorder
	snapshots     snapshot.Store
	secretField   string
	partitionSize int
}

// Option configures Open.
type Option func(*options)

// WithSnapshotStore sets the persistence adapter used by Open (load) and
// Save/Close (save). Without one the store is purely in-memory.
func WithSnapshotStore(s snapshot.Store) Option {
	return func(o *options) {
		o.snapshots = s
	}
}

// WithSnapshotFile is a convenience for the common case: a local
// JSON-shaped snapshot file using the default codec.
func WithSnapshotFile(path string, optFns ...func(o *snapshot.FileOptions)) Option {
	return func(o *options) {
		o.snapshots = snapshot.NewFileStore(path, optFns...)
	}
}

// WithMetricsRecorder sets the latency recorder shared by the store and
// the reorganizer. Defaults to a fresh StreamingRecorder, readable via
// DB.Metrics.
func WithMetricsRecorder(r engine.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger sets structured logging for operations. Pass nil to keep the
// default (no output).
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLogLevel creates a text logger at the given level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithSecretField sets the row field projected by Credential.
// Defaults to "password".
func WithSecretField(name string) Option {
	return func(o *options) {
		o.secretField = name
	}
}

// WithPartitionSize sets the chunk size used by ReorganizePartitioned.
// Defaults to engine.DefaultPartitionSize.
func WithPartitionSize(n int) Option {
	return func(o *options) {
		o.partitionSize = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:   NoopLogger(),
		recorder: engine.NewStreamingRecorder(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
