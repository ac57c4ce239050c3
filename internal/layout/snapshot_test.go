package layout

import (
	"testing"
)

func TestSnapshotEqual(t *testing.T) {
	a := seedModel().Capture()
	b := seedModel().Capture()
	if !a.Equal(b) {
		t.Errorf("identical arrangements: expected Equal")
	}

	m := seedModel()
	m.MoveWithinColumn("a", 2)
	if a.Equal(m.Capture()) {
		t.Errorf("different arrangements: expected not Equal")
	}
}

func TestSnapshotMarshal(t *testing.T) {
	data, err := seedModel().Capture().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	snap, dropped := SanitizeSnapshot(3, data)
	if dropped != 0 {
		t.Errorf("round-trip dropped %d entries", dropped)
	}
	if !snap.Equal(seedModel().Capture()) {
		t.Errorf("round-trip changed the snapshot: %+v", snap.Placements())
	}

	empty, err := Snapshot{}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON on empty snapshot: %v", err)
	}
	if string(empty) != "[]" {
		t.Errorf("empty snapshot encodes as %s, expected []", empty)
	}
}

func TestSanitizeSnapshot(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantIDs     []string
		wantDropped int
	}{
		{
			name:        "well formed",
			raw:         `[{"widgetId":"a","columnIndex":0,"order":0},{"widgetId":"b","columnIndex":1,"order":0}]`,
			wantIDs:     []string{"a", "b"},
			wantDropped: 0,
		},
		{
			name:        "non-integer order dropped",
			raw:         `[{"widgetId":"a","columnIndex":0,"order":0},{"widgetId":"b","columnIndex":0,"order":1.5}]`,
			wantIDs:     []string{"a"},
			wantDropped: 1,
		},
		{
			name:        "string order dropped",
			raw:         `[{"widgetId":"a","columnIndex":0,"order":"first"}]`,
			wantIDs:     nil,
			wantDropped: 1,
		},
		{
			name:        "column out of range dropped",
			raw:         `[{"widgetId":"a","columnIndex":3,"order":0},{"widgetId":"b","columnIndex":-1,"order":0}]`,
			wantIDs:     nil,
			wantDropped: 2,
		},
		{
			name:        "duplicate widget dropped",
			raw:         `[{"widgetId":"a","columnIndex":0,"order":0},{"widgetId":"a","columnIndex":1,"order":0}]`,
			wantIDs:     []string{"a"},
			wantDropped: 1,
		},
		{
			name:        "missing fields dropped",
			raw:         `[{"columnIndex":0,"order":0},{"widgetId":"b","order":0},{"widgetId":"c","columnIndex":0}]`,
			wantIDs:     nil,
			wantDropped: 3,
		},
		{
			name:        "not an array",
			raw:         `{"widgetId":"a"}`,
			wantIDs:     nil,
			wantDropped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, dropped := SanitizeSnapshot(3, []byte(tt.raw))
			if dropped != tt.wantDropped {
				t.Errorf("dropped = %d, expected %d", dropped, tt.wantDropped)
			}
			var ids []string
			for _, p := range snap.Placements() {
				ids = append(ids, p.WidgetID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("kept %v, expected %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Fatalf("kept %v, expected %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestSanitizeSnapshotRenumbers(t *testing.T) {
	// Sparse and duplicated orders survive as relative order, renumbered
	// densely per column.
	raw := `[
		{"widgetId":"c","columnIndex":0,"order":10},
		{"widgetId":"a","columnIndex":0,"order":-3},
		{"widgetId":"b","columnIndex":0,"order":4},
		{"widgetId":"z","columnIndex":2,"order":7}
	]`
	snap, dropped := SanitizeSnapshot(3, []byte(raw))
	if dropped != 0 {
		t.Fatalf("dropped = %d, expected 0", dropped)
	}

	want := []Placement{
		{WidgetID: "a", Column: 0, Order: 0},
		{WidgetID: "b", Column: 0, Order: 1},
		{WidgetID: "c", Column: 0, Order: 2},
		{WidgetID: "z", Column: 2, Order: 0},
	}
	got := snap.Placements()
	if len(got) != len(want) {
		t.Fatalf("Placements() = %+v, expected %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("placement %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}
