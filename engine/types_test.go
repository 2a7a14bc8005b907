package engine

import (
	"reflect"
	"testing"
)

func TestTableInsertionOrder(t *testing.T) {
	tbl := NewTable()
	for _, key := range []string{"c", "a", "b"} {
		if !tbl.Insert(key, Row{}) {
			t.Fatalf("Insert(%q) reported duplicate", key)
		}
	}

	if got := tbl.Keys(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("Keys() = %v, want insertion order", got)
	}
	if tbl.Insert("a", Row{}) {
		t.Fatal("duplicate Insert succeeded")
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
}

func TestTableInsertNilRow(t *testing.T) {
	tbl := NewTable()
	tbl.Insert("k", nil)

	row, ok := tbl.Get("k")
	if !ok || row == nil {
		t.Fatalf("Get after nil insert: row=%v ok=%v", row, ok)
	}
	row.incrementQueryCount()
	if row.QueryCount() != 1 {
		t.Fatalf("QueryCount = %d, want 1", row.QueryCount())
	}
}

func TestRowQueryCountCoercion(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want int64
	}{
		{"absent", nil, 0},
		{"int", 7, 7},
		{"int64", int64(9), 9},
		{"uint64", uint64(3), 3},
		{"float64 from JSON decode", float64(5), 5},
		{"non-numeric", "many", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{}
			if tc.val != nil {
				row[FieldQueryCount] = tc.val
			}
			if got := row.QueryCount(); got != tc.want {
				t.Fatalf("QueryCount() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTableTotalQueryCount(t *testing.T) {
	tbl := NewTable()
	tbl.Insert("a", Row{FieldQueryCount: 4})
	tbl.Insert("b", Row{FieldQueryCount: float64(6)})
	tbl.Insert("c", Row{})

	if got := tbl.TotalQueryCount(); got != 10 {
		t.Fatalf("TotalQueryCount() = %d, want 10", got)
	}
}

func TestShallowCloneSharesRows(t *testing.T) {
	tbl := NewTable()
	tbl.Insert("a", Row{FieldQueryCount: 1})
	tbl.Insert("b", Row{FieldQueryCount: 5})

	clone := tbl.shallowClone()
	row, _ := tbl.Get("a")
	row.incrementQueryCount()

	cloned, _ := clone.Get("a")
	if cloned.QueryCount() != 2 {
		t.Fatalf("clone row count = %d, want shared update (2)", cloned.QueryCount())
	}

	// Key order is independent.
	clone.sortRange(0, clone.Len())
	if !reflect.DeepEqual(clone.Keys(), []string{"b", "a"}) {
		t.Fatalf("clone keys = %v, want [b a]", clone.Keys())
	}
	if !reflect.DeepEqual(tbl.Keys(), []string{"a", "b"}) {
		t.Fatalf("original keys = %v, want untouched [a b]", tbl.Keys())
	}
}
