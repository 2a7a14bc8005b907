package engine

import "sort"

// DefaultPartitionSize bounds the chunk PartitionedSort reorders as a unit.
const DefaultPartitionSize = 1000

// Shadow is the reorganization working copy of the store: cloned table
// headers over shared rows. It is owned solely by the in-flight
// reorganization task and is invisible to callers until swapped in.
type Shadow struct {
	order  []string
	tables map[string]*Table
}

// TableNames returns the shadow's table names in insertion order.
func (sh *Shadow) TableNames() []string {
	names := make([]string, len(sh.order))
	copy(names, sh.order)
	return names
}

// Table returns the shadow copy of a table, or nil.
func (sh *Shadow) Table(name string) *Table {
	return sh.tables[name]
}

// tablesByPriority orders table names by total query count, descending.
// Ties keep insertion order (stable).
func (sh *Shadow) tablesByPriority() []string {
	names := sh.TableNames()
	totals := make(map[string]int64, len(names))
	for _, name := range names {
		totals[name] = sh.tables[name].TotalQueryCount()
	}
	sort.SliceStable(names, func(i, j int) bool {
		return totals[names[i]] > totals[names[j]]
	})
	return names
}

// Policy reorders the shadow store. Implementations must only permute row
// order; field contents are shared with the live store and off limits.
type Policy interface {
	Name() string
	Reorder(sh *Shadow)
}

// FullSort totally reorders every table by query count, descending, with
// insertion order as the tie-break.
type FullSort struct{}

// Name implements Policy.
func (FullSort) Name() string { return "full-sort" }

// Reorder implements Policy.
func (FullSort) Reorder(sh *Shadow) {
	for _, name := range sh.order {
		t := sh.tables[name]
		t.sortRange(0, t.Len())
	}
}

// PartitionedSort processes tables in descending aggregate-priority order
// and reorders rows only within fixed-size contiguous chunks of the
// original key order. This bounds the data resorted as a unit at the cost
// of a weaker guarantee: ordering is local to each chunk, cross-chunk
// order is unspecified. It is not a drop-in replacement for FullSort.
type PartitionedSort struct {
	// PartitionSize is the chunk length; 0 or negative means
	// DefaultPartitionSize.
	PartitionSize int
}

// Name implements Policy.
func (PartitionedSort) Name() string { return "partitioned-sort" }

// Reorder implements Policy.
func (p PartitionedSort) Reorder(sh *Shadow) {
	size := p.PartitionSize
	if size <= 0 {
		size = DefaultPartitionSize
	}
	for _, name := range sh.tablesByPriority() {
		t := sh.tables[name]
		for lo := 0; lo < t.Len(); lo += size {
			hi := min(lo+size, t.Len())
			t.sortRange(lo, hi)
		}
	}
}
