package engine

import (
	"maps"
	"slices"
	"sort"
)

// FieldQueryCount is the conventional access-frequency counter field.
// Rows without it are treated as having a count of zero.
const FieldQueryCount = "query_count"

// Row is the field map for one entity, keyed by field name.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	return maps.Clone(r)
}

// QueryCount returns the row's access counter, coercing across the numeric
// types the codecs produce (JSON decodes numbers as float64, msgpack as
// int64/uint64). An absent or non-numeric field counts as zero.
func (r Row) QueryCount() int64 {
	switch v := r[FieldQueryCount].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// incrementQueryCount bumps the counter by one, normalizing it to int64.
// Callers must hold the store lock.
func (r Row) incrementQueryCount() {
	r[FieldQueryCount] = r.QueryCount() + 1
}

// Table is an insertion-ordered collection of rows. The key order is the
// tie-break and chunk-boundary order used by reorganization, so it is kept
// explicitly alongside the row map.
type Table struct {
	keys []string
	rows map[string]Row
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]Row)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.keys)
}

// Get returns the row for key.
func (t *Table) Get(key string) (Row, bool) {
	row, ok := t.rows[key]
	return row, ok
}

// Insert adds a row at the end of the iteration order. It returns false if
// the key is already present. A nil fields map inserts an empty row.
func (t *Table) Insert(key string, row Row) bool {
	if _, ok := t.rows[key]; ok {
		return false
	}
	if row == nil {
		row = Row{}
	}
	t.rows[key] = row
	t.keys = append(t.keys, key)
	return true
}

// Keys returns the row keys in iteration order.
func (t *Table) Keys() []string {
	return slices.Clone(t.keys)
}

// TotalQueryCount sums the access counters of all rows. It is the table's
// reorganization priority.
func (t *Table) TotalQueryCount() int64 {
	var total int64
	for _, row := range t.rows {
		total += row.QueryCount()
	}
	return total
}

// shallowClone copies the key slice and the row map one level deep; the Row
// maps themselves are shared with the original. This is the shadow-copy
// depth: reordering policies only permute keys and never touch fields.
func (t *Table) shallowClone() *Table {
	return &Table{
		keys: slices.Clone(t.keys),
		rows: maps.Clone(t.rows),
	}
}

// sortRange stable-sorts keys[lo:hi] by query count, descending. Ties keep
// their prior relative order.
func (t *Table) sortRange(lo, hi int) {
	seg := t.keys[lo:hi]
	sort.SliceStable(seg, func(i, j int) bool {
		return t.rows[seg[i]].QueryCount() > t.rows[seg[j]].QueryCount()
	})
}

// Snapshot is a point-in-time copy of the whole table map, shaped like the
// persisted form: {table: {row key: {field: value}}}. Iteration order is
// not part of the snapshot contract.
type Snapshot map[string]map[string]Row

// Credential is the minimal projection returned by credential lookups.
type Credential struct {
	Key    string
	Secret string
}
