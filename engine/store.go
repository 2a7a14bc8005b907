package engine

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// DefaultSecretField is the row field returned by credential lookups
// unless the store is configured otherwise.
const DefaultSecretField = "password"

// Store is the in-memory table map. Every operation routes through the
// shared Coordinator; the struct fields themselves are only touched under
// its lock.
type Store struct {
	coord       *Coordinator
	metrics     Recorder
	secretField string

	tables map[string]*Table
	order  []string // table insertion order
	shadow *Shadow  // non-nil only while a reorganization is in flight
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreRecorder sets the latency recorder. Defaults to NoopRecorder.
func WithStoreRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithSecretField sets the row field projected by Credential.
func WithSecretField(name string) StoreOption {
	return func(s *Store) {
		if name != "" {
			s.secretField = name
		}
	}
}

// NewStore creates an empty store bound to coord.
func NewStore(coord *Coordinator, optFns ...StoreOption) *Store {
	s := &Store{
		coord:       coord,
		metrics:     NoopRecorder{},
		secretField: DefaultSecretField,
		tables:      make(map[string]*Table),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(s)
		}
	}
	return s
}

// Coordinator returns the coordinator shared by this store's operations.
func (s *Store) Coordinator() *Coordinator {
	return s.coord
}

// AddTable creates an empty table. Gated: it waits out an in-flight
// reorganization so the new table cannot be lost at swap time.
func (s *Store) AddTable(name string) error {
	return s.coord.Gated(func() error {
		if _, ok := s.tables[name]; ok {
			return fmt.Errorf("add table %q: %w", name, ErrTableExists)
		}
		s.tables[name] = NewTable()
		s.order = append(s.order, name)
		return nil
	})
}

// AddRow inserts a row, preserving insertion order. Gated.
func (s *Store) AddRow(table, key string, fields Row) error {
	return s.coord.Gated(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("add row %q/%q: %w", table, key, ErrTableNotFound)
		}
		if !t.Insert(key, fields) {
			return fmt.Errorf("add row %q/%q: %w", table, key, ErrRowExists)
		}
		return nil
	})
}

// GetRow returns a copy of the row. It is not gated: the swap is atomic
// under the lock, so the read is always wholly pre- or post-sort. The copy
// keeps callers from racing gated increments on the live row.
func (s *Store) GetRow(table, key string) (Row, error) {
	start := time.Now()
	var row Row
	err := s.coord.WithLock(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("get row %q/%q: %w", table, key, ErrRowNotFound)
		}
		r, ok := t.Get(key)
		if !ok {
			return fmt.Errorf("get row %q/%q: %w", table, key, ErrRowNotFound)
		}
		row = r.Clone()
		return nil
	})
	s.metrics.RecordRequest(time.Since(start))
	return row, err
}

// Increment bumps the row's query counter by one. Gated; an absent counter
// field is treated as zero.
func (s *Store) Increment(table, key string) error {
	start := time.Now()
	err := s.coord.Gated(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("increment %q/%q: %w", table, key, ErrRowNotFound)
		}
		row, ok := t.Get(key)
		if !ok {
			return fmt.Errorf("increment %q/%q: %w", table, key, ErrRowNotFound)
		}
		row.incrementQueryCount()
		return nil
	})
	s.metrics.RecordRequest(time.Since(start))
	return err
}

// Credential returns the row key plus the designated secret field. Gated.
func (s *Store) Credential(table, key string) (Credential, error) {
	start := time.Now()
	var cred Credential
	err := s.coord.Gated(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("credential %q/%q: %w", table, key, ErrRowNotFound)
		}
		row, ok := t.Get(key)
		if !ok {
			return fmt.Errorf("credential %q/%q: %w", table, key, ErrRowNotFound)
		}
		secret, ok := row[s.secretField].(string)
		if !ok {
			return fmt.Errorf("credential %q/%q: field %q: %w", table, key, s.secretField, ErrMissingField)
		}
		cred = Credential{Key: key, Secret: secret}
		return nil
	})
	s.metrics.RecordRequest(time.Since(start))
	return cred, err
}

// Tables returns the table names in insertion order.
func (s *Store) Tables() []string {
	var names []string
	_ = s.coord.WithLock(func() error {
		names = slices.Clone(s.order)
		return nil
	})
	return names
}

// Keys returns a table's row keys in iteration order.
func (s *Store) Keys(table string) ([]string, error) {
	var keys []string
	err := s.coord.WithLock(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("keys %q: %w", table, ErrTableNotFound)
		}
		keys = t.Keys()
		return nil
	})
	return keys, err
}

// Len returns a table's row count.
func (s *Store) Len(table string) (int, error) {
	var n int
	err := s.coord.WithLock(func() error {
		t, ok := s.tables[table]
		if !ok {
			return fmt.Errorf("len %q: %w", table, ErrTableNotFound)
		}
		n = t.Len()
		return nil
	})
	return n, err
}

// Snapshot takes a point-in-time copy of the whole table map under the
// lock. Rows are cloned too, so the caller can serialize the result
// outside the lock without racing concurrent increments.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	_ = s.coord.WithLock(func() error {
		snap = make(Snapshot, len(s.tables))
		for name, t := range s.tables {
			rows := make(map[string]Row, t.Len())
			for _, key := range t.keys {
				rows[key] = t.rows[key].Clone()
			}
			snap[name] = rows
		}
		return nil
	})
	return snap
}

// Restore replaces the store contents with a loaded snapshot. The
// persisted form carries no order, so tables and keys are installed in
// sorted order for determinism.
func (s *Store) Restore(snap Snapshot) {
	_ = s.coord.WithLock(func() error {
		s.tables = make(map[string]*Table, len(snap))
		s.order = s.order[:0]
		names := make([]string, 0, len(snap))
		for name := range snap {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			t := NewTable()
			rows := snap[name]
			keys := make([]string, 0, len(rows))
			for key := range rows {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				t.Insert(key, rows[key])
			}
			s.tables[name] = t
			s.order = append(s.order, name)
		}
		return nil
	})
}

// beginReorganization sets the active flag and builds the shadow copy
// under the lock: new table headers and key slices, shared Row maps.
func (s *Store) beginReorganization() *Shadow {
	var sh *Shadow
	s.coord.beginReorganization(func() {
		sh = &Shadow{
			order:  slices.Clone(s.order),
			tables: make(map[string]*Table, len(s.tables)),
		}
		for name, t := range s.tables {
			sh.tables[name] = t.shallowClone()
		}
		s.shadow = sh
	})
	return sh
}

// commitReorganization swaps the shadow's table map into place. The swap
// is two pointer assignments, independent of table size.
func (s *Store) commitReorganization(sh *Shadow) {
	s.coord.endReorganization(func() {
		s.tables = sh.tables
		s.order = sh.order
		s.shadow = nil
	})
}

// abortReorganization drops the shadow and releases gated waiters without
// touching the active tables.
func (s *Store) abortReorganization() {
	s.coord.endReorganization(func() {
		s.shadow = nil
	})
}
