// Package activedb is an in-memory, multi-table key-value store with a
// background reorganization engine.
//
// Tables map row keys to field maps and keep insertion order. A background
// task periodically reorders rows by access frequency (the conventional
// "query_count" field) without stopping the store: it copies the table map
// into a shadow, sorts the shadow off the critical path, and swaps it in
// atomically. Operations that mutate the store, and credential lookups,
// wait out an in-flight reorganization behind a condition variable; plain
// reads only contend for the lock.
//
// Quick start:
//
//	db, err := activedb.Open(
//	    activedb.WithSnapshotFile("users.json"),
//	    activedb.WithLogLevel(slog.LevelInfo),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	_ = db.AddTable("users")
//	_ = db.AddRow("users", "u1", engine.Row{"password": "s3cret"})
//	_ = db.Increment("users", "u1")
//
//	if err := db.Reorganize(); err != nil { // full sort, in the background
//	    log.Print(err)
//	}
//	db.WaitForReorganization()
//
// Persistence is best-effort by design: snapshots are written on Save and
// Close, there is no write-ahead log and no crash-recovery guarantee.
package activedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/MasonSandau/ActiveDB/engine"
	"github.com/MasonSandau/ActiveDB/snapshot"
)

// DB is the public facade over the store, its coordinator, and the
// reorganization engine. Methods are safe for concurrent use.
type DB struct {
	coord     *engine.Coordinator
	store     *engine.Store
	reorg     *engine.Reorganizer
	snapshots snapshot.Store
	recorder  engine.Recorder
	logger    *Logger

	partitionSize int
}

// Open builds a DB and, when a snapshot store is configured, loads the
// latest snapshot. A missing snapshot starts an empty store; a snapshot
// that exists but fails to decode is logged and also falls back to an
// empty store, per the best-effort persistence contract.
func Open(optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)

	coord := engine.NewCoordinator()
	store := engine.NewStore(coord,
		engine.WithStoreRecorder(opts.recorder),
		engine.WithSecretField(opts.secretField),
	)
	reorg := engine.NewReorganizer(store,
		engine.WithReorganizerLogger(opts.logger.Logger),
		engine.WithReorganizerRecorder(opts.recorder),
	)

	db := &DB{
		coord:         coord,
		store:         store,
		reorg:         reorg,
		snapshots:     opts.snapshots,
		recorder:      opts.recorder,
		logger:        opts.logger,
		partitionSize: opts.partitionSize,
	}

	if db.snapshots != nil {
		snap, err := db.snapshots.Load(context.Background())
		var decodeErr *snapshot.DecodeError
		switch {
		case err == nil:
			db.store.Restore(snap)
			db.logger.Info("snapshot loaded", "tables", len(snap))
		case errors.Is(err, snapshot.ErrNotFound):
			db.logger.Info("no snapshot found, starting empty")
		case errors.As(err, &decodeErr):
			db.logger.Error("snapshot load failed, starting empty", "error", err)
		default:
			return nil, fmt.Errorf("activedb: load snapshot: %w", err)
		}
	}

	return db, nil
}

// AddTable creates an empty table.
func (db *DB) AddTable(name string) error {
	err := db.store.AddTable(name)
	db.logger.LogAddTable(name, err)
	return err
}

// AddRow inserts a row into a table, preserving insertion order.
func (db *DB) AddRow(table, key string, fields engine.Row) error {
	err := db.store.AddRow(table, key, fields)
	db.logger.LogAddRow(table, key, err)
	return err
}

// GetRow returns a copy of the row.
func (db *DB) GetRow(table, key string) (engine.Row, error) {
	row, err := db.store.GetRow(table, key)
	db.logger.LogGetRow(table, key, err)
	return row, err
}

// Increment bumps the row's query counter by one. It blocks while a
// reorganization is in flight and resumes against the post-swap store.
func (db *DB) Increment(table, key string) error {
	err := db.store.Increment(table, key)
	db.logger.LogIncrement(table, key, err)
	return err
}

// Credential returns the row key and its designated secret field
// (see WithSecretField). It blocks while a reorganization is in flight.
func (db *DB) Credential(table, key string) (engine.Credential, error) {
	cred, err := db.store.Credential(table, key)
	db.logger.LogCredential(table, key, err)
	return cred, err
}

// Tables returns the table names in insertion order.
func (db *DB) Tables() []string {
	return db.store.Tables()
}

// Keys returns a table's row keys in current iteration order.
func (db *DB) Keys(table string) ([]string, error) {
	return db.store.Keys(table)
}

// Len returns a table's row count.
func (db *DB) Len(table string) (int, error) {
	return db.store.Len(table)
}

// Reorganize starts a background full-sort reorganization: every table is
// stably reordered by query count, descending. It returns
// ErrReorganizationRunning when a run is already in flight; requests are
// rejected, never queued.
func (db *DB) Reorganize() error {
	return db.reorg.Start(engine.FullSort{})
}

// ReorganizePartitioned starts a background priority-partitioned
// reorganization using the configured partition size. Tables are processed
// in descending total-query-count order and rows are reordered only within
// fixed-size chunks; ordering across chunks is unspecified.
func (db *DB) ReorganizePartitioned() error {
	return db.reorg.Start(engine.PartitionedSort{PartitionSize: db.partitionSize})
}

// ReorganizeWithPolicy starts a background reorganization with a custom
// policy. A nil policy means full sort.
func (db *DB) ReorganizeWithPolicy(p engine.Policy) error {
	return db.reorg.Start(p)
}

// WaitForReorganization blocks until no reorganization is in flight.
func (db *DB) WaitForReorganization() {
	db.reorg.Wait()
}

// Save writes a point-in-time snapshot to the configured snapshot store.
// The copy is taken under the store lock; encoding and I/O happen outside
// it. A write failure leaves the in-memory store unaffected and is not
// retried.
func (db *DB) Save(ctx context.Context) error {
	if db.snapshots == nil {
		return fmt.Errorf("activedb: no snapshot store configured")
	}
	snap := db.store.Snapshot()
	err := db.snapshots.Save(ctx, snap)
	db.logger.LogSnapshot(ctx, len(snap), err)
	return err
}

// Metrics reports streaming latency aggregates when the DB uses the
// default StreamingRecorder (or one supplied via WithMetricsRecorder).
// Custom Recorder implementations report through their own channels and
// yield zero stats here.
func (db *DB) Metrics() Metrics {
	if s, ok := db.recorder.(*engine.StreamingRecorder); ok {
		return Metrics{
			Request:        s.RequestStats(),
			Reorganization: s.ReorganizationStats(),
		}
	}
	return Metrics{}
}

// Metrics is a snapshot of the DB's latency aggregates.
type Metrics struct {
	Request        engine.LatencyStats
	Reorganization engine.LatencyStats
}

// Elapsed reports a human-oriented summary line for logs.
func (m Metrics) Elapsed() string {
	return fmt.Sprintf("requests avg=%s max=%s n=%d, reorganizations avg=%s max=%s n=%d",
		m.Request.Average(), m.Request.Max, m.Request.Count,
		m.Reorganization.Average(), m.Reorganization.Max, m.Reorganization.Count)
}
