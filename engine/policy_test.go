package engine

import (
	"reflect"
	"testing"
)

func shadowFromRows(names []string, rows map[string]map[string]int64, keyOrder map[string][]string) *Shadow {
	sh := &Shadow{
		order:  names,
		tables: make(map[string]*Table, len(names)),
	}
	for _, name := range names {
		t := NewTable()
		for _, key := range keyOrder[name] {
			t.Insert(key, Row{FieldQueryCount: rows[name][key]})
		}
		sh.tables[name] = t
	}
	return sh
}

func TestFullSortReorder(t *testing.T) {
	sh := shadowFromRows(
		[]string{"users"},
		map[string]map[string]int64{
			"users": {"u1": 5, "u2": 1, "u3": 3},
		},
		map[string][]string{
			"users": {"u1", "u2", "u3"},
		},
	)

	FullSort{}.Reorder(sh)

	if got := sh.Table("users").Keys(); !reflect.DeepEqual(got, []string{"u1", "u3", "u2"}) {
		t.Fatalf("keys after full sort = %v, want [u1 u3 u2]", got)
	}
}

func TestFullSortStableTies(t *testing.T) {
	sh := shadowFromRows(
		[]string{"users"},
		map[string]map[string]int64{
			"users": {"a": 2, "b": 2, "c": 7},
		},
		map[string][]string{
			"users": {"a", "b", "c"},
		},
	)

	FullSort{}.Reorder(sh)

	// Equal counts keep insertion order.
	if got := sh.Table("users").Keys(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("keys = %v, want [c a b]", got)
	}
}

func TestPartitionedSortChunkLocal(t *testing.T) {
	sh := shadowFromRows(
		[]string{"users"},
		map[string]map[string]int64{
			"users": {"a": 1, "b": 5, "c": 3, "d": 2, "e": 9, "f": 4},
		},
		map[string][]string{
			"users": {"a", "b", "c", "d", "e", "f"},
		},
	)

	PartitionedSort{PartitionSize: 3}.Reorder(sh)

	// Each chunk of three is sorted independently; e (9) stays in the
	// second chunk even though it outranks everything in the first.
	want := []string{"b", "c", "a", "e", "f", "d"}
	if got := sh.Table("users").Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
}

func TestPartitionedSortDefaultSize(t *testing.T) {
	sh := shadowFromRows(
		[]string{"users"},
		map[string]map[string]int64{
			"users": {"u1": 1, "u2": 2},
		},
		map[string][]string{
			"users": {"u1", "u2"},
		},
	)

	// Zero size falls back to DefaultPartitionSize, which covers the whole
	// table here, so the result matches a full sort.
	PartitionedSort{}.Reorder(sh)

	if got := sh.Table("users").Keys(); !reflect.DeepEqual(got, []string{"u2", "u1"}) {
		t.Fatalf("keys = %v, want [u2 u1]", got)
	}
}

func TestShadowTablesByPriority(t *testing.T) {
	sh := shadowFromRows(
		[]string{"logs", "users"},
		map[string]map[string]int64{
			"logs":  {"l1": 4, "l2": 6},
			"users": {"u1": 80, "u2": 20},
		},
		map[string][]string{
			"logs":  {"l1", "l2"},
			"users": {"u1", "u2"},
		},
	)

	// users has the higher aggregate count and is processed first despite
	// being registered second.
	if got := sh.tablesByPriority(); !reflect.DeepEqual(got, []string{"users", "logs"}) {
		t.Fatalf("priority order = %v, want [users logs]", got)
	}
}
