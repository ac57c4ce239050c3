package layout

import (
	"slices"
	"testing"
)

// seedModel builds a three-column model: [a b c] [d e] [].
func seedModel() *Model {
	m := NewModel(3)
	m.Insert("a", 0)
	m.Insert("b", 0)
	m.Insert("c", 0)
	m.Insert("d", 1)
	m.Insert("e", 1)
	return m
}

// checkInvariants verifies that every widget appears exactly once and that
// Find agrees with the column listings.
func checkInvariants(t *testing.T, m *Model) {
	t.Helper()
	seen := make(map[string]bool)
	for c := 0; c < m.Columns(); c++ {
		for i, id := range m.Column(c) {
			if seen[id] {
				t.Fatalf("widget %q appears more than once", id)
			}
			seen[id] = true
			p, ok := m.Find(id)
			if !ok {
				t.Fatalf("Find(%q): not found but listed in column %d", id, c)
			}
			if p.Column != c || p.Order != i {
				t.Fatalf("Find(%q) = {col %d, order %d}, expected {col %d, order %d}",
					id, p.Column, p.Order, c, i)
			}
		}
	}
	if len(seen) != m.Len() {
		t.Fatalf("Len() = %d, expected %d placed widgets", m.Len(), len(seen))
	}
}

func TestNewModelPanicsOnZeroColumns(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewModel(0): expected panic")
		}
	}()
	NewModel(0)
}

func TestInsert(t *testing.T) {
	m := seedModel()
	checkInvariants(t, m)

	if got := m.Column(0); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Column(0) = %v, expected [a b c]", got)
	}
	if got := m.Column(1); !slices.Equal(got, []string{"d", "e"}) {
		t.Errorf("Column(1) = %v, expected [d e]", got)
	}

	// Re-inserting a placed widget is a no-op.
	m.Insert("a", 2)
	if p, _ := m.Find("a"); p.Column != 0 || p.Order != 0 {
		t.Errorf("Insert of placed widget moved it: %+v", p)
	}

	// Out-of-range columns clamp.
	m.Insert("f", 99)
	if p, _ := m.Find("f"); p.Column != 2 {
		t.Errorf("Insert(f, 99): expected clamp to column 2, got %d", p.Column)
	}
	m.Insert("g", -1)
	if p, _ := m.Find("g"); p.Column != 0 {
		t.Errorf("Insert(g, -1): expected clamp to column 0, got %d", p.Column)
	}
	checkInvariants(t, m)
}

func TestRemove(t *testing.T) {
	m := seedModel()
	if !m.Remove("b") {
		t.Fatalf("Remove(b) = false, expected true")
	}
	if got := m.Column(0); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Column(0) after Remove(b) = %v, expected [a c]", got)
	}
	if m.Remove("b") {
		t.Errorf("Remove(b) twice: expected false on second call")
	}
	checkInvariants(t, m)
}

func TestMoveWithinColumn(t *testing.T) {
	tests := []struct {
		name   string
		widget string
		target int
		want   []string
	}{
		{"to front", "c", 0, []string{"c", "a", "b"}},
		{"to middle", "a", 1, []string{"b", "a", "c"}},
		{"to end", "a", 2, []string{"b", "c", "a"}},
		{"same position", "b", 1, []string{"a", "b", "c"}},
		{"negative clamps to front", "c", -5, []string{"c", "a", "b"}},
		{"beyond end clamps to back", "a", 99, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := seedModel()
			if !m.MoveWithinColumn(tt.widget, tt.target) {
				t.Fatalf("MoveWithinColumn(%q, %d) = false", tt.widget, tt.target)
			}
			if got := m.Column(0); !slices.Equal(got, tt.want) {
				t.Errorf("Column(0) = %v, expected %v", got, tt.want)
			}
			checkInvariants(t, m)
		})
	}
}

func TestMoveToColumn(t *testing.T) {
	m := seedModel()
	if !m.MoveToColumn("b", 1, 1) {
		t.Fatalf("MoveToColumn(b, 1, 1) = false")
	}
	if got := m.Column(0); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("source column = %v, expected [a c]", got)
	}
	if got := m.Column(1); !slices.Equal(got, []string{"d", "b", "e"}) {
		t.Errorf("target column = %v, expected [d b e]", got)
	}
	checkInvariants(t, m)

	// Index beyond the target column clamps to its end.
	m2 := seedModel()
	m2.MoveToColumn("a", 2, 7)
	if got := m2.Column(2); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Column(2) = %v, expected [a]", got)
	}
	checkInvariants(t, m2)
}

func TestMoveToColumnEverywhere(t *testing.T) {
	// Every widget moved to every column at every index, including
	// out-of-range values, must land clamped with the invariants intact.
	for _, w := range []string{"a", "b", "c", "d", "e"} {
		for col := -1; col <= 3; col++ {
			for idx := -1; idx <= 4; idx++ {
				m := seedModel()
				if !m.MoveToColumn(w, col, idx) {
					t.Fatalf("MoveToColumn(%q, %d, %d) = false", w, col, idx)
				}
				checkInvariants(t, m)

				wantCol := min(max(col, 0), m.Columns()-1)
				p, ok := m.Find(w)
				if !ok || p.Column != wantCol {
					t.Fatalf("MoveToColumn(%q, %d, %d) landed at %+v, expected column %d",
						w, col, idx, p, wantCol)
				}
				wantOrder := min(max(idx, 0), len(m.Column(wantCol))-1)
				if p.Order != wantOrder {
					t.Errorf("MoveToColumn(%q, %d, %d) landed at order %d, expected %d",
						w, col, idx, p.Order, wantOrder)
				}
			}
		}
	}
}

func TestMoveUnknownWidget(t *testing.T) {
	m := seedModel()
	if m.MoveWithinColumn("nope", 0) {
		t.Errorf("MoveWithinColumn(nope): expected false")
	}
	if m.MoveToColumn("nope", 1, 0) {
		t.Errorf("MoveToColumn(nope): expected false")
	}
}

func TestEmptyWidgetIDPanics(t *testing.T) {
	m := seedModel()
	defer func() {
		if recover() == nil {
			t.Errorf("Insert(\"\"): expected panic")
		}
	}()
	m.Insert("", 0)
}

func TestCaptureApplyIdentity(t *testing.T) {
	m := seedModel()
	m.MoveToColumn("a", 2, 0)
	before := m.Capture()

	m.Apply(before)
	after := m.Capture()
	if !before.Equal(after) {
		t.Errorf("Apply(Capture()) changed the arrangement:\nbefore %+v\nafter  %+v",
			before.Placements(), after.Placements())
	}
	checkInvariants(t, m)
}

func TestApplyReplaces(t *testing.T) {
	m := seedModel()
	snap := m.Capture()

	m.MoveToColumn("a", 1, 0)
	m.Remove("d")
	m.Apply(snap)

	if got := m.Column(0); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Column(0) after Apply = %v, expected [a b c]", got)
	}
	if got := m.Column(1); !slices.Equal(got, []string{"d", "e"}) {
		t.Errorf("Column(1) after Apply = %v, expected [d e]", got)
	}
	checkInvariants(t, m)
}
