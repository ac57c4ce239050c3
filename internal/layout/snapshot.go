package layout

import (
	"encoding/json"
	"sort"

	"paneldeck/internal/jsonutil"
)

// Snapshot is an immutable capture of a board arrangement. Placements are
// held sorted by column, then order, so two snapshots of the same
// arrangement compare equal and encode identically.
type Snapshot struct {
	placements []Placement
}

// Placements returns a copy of the snapshot's placements in column-major
// visual order.
func (s Snapshot) Placements() []Placement {
	out := make([]Placement, len(s.placements))
	copy(out, s.placements)
	return out
}

// Len returns the number of placements.
func (s Snapshot) Len() int {
	return len(s.placements)
}

// Equal reports whether two snapshots describe the same arrangement.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.placements) != len(other.placements) {
		return false
	}
	for i, p := range s.placements {
		if p != other.placements[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the snapshot as a flat placement array.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s.placements) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.placements)
}

// SanitizeSnapshot decodes an externally supplied placement array into a
// snapshot, dropping malformed entries rather than failing: a non-string or
// empty widget ID, a non-integer column or order, a column outside
// [0, columns), or a duplicate widget ID each drop that entry. Surviving
// entries keep their relative order within each column and are renumbered
// densely. The dropped count is returned alongside; a document that is not a
// JSON array at all yields an empty snapshot.
func SanitizeSnapshot(columns int, raw []byte) (Snapshot, int) {
	entries, err := jsonutil.UnmarshalArrayAllowEmpty[map[string]interface{}](raw, "layout")
	if err != nil {
		return Snapshot{}, 0
	}

	seen := make(map[string]bool, len(entries))
	var kept []Placement
	dropped := 0
	for _, e := range entries {
		id := jsonutil.GetString(e, "widgetId")
		col, colOK := jsonutil.GetInt(e, "columnIndex")
		ord, ordOK := jsonutil.GetInt(e, "order")
		if id == "" || !colOK || !ordOK || col < 0 || col >= columns || seen[id] {
			dropped++
			continue
		}
		seen[id] = true
		kept = append(kept, Placement{WidgetID: id, Column: col, Order: ord})
	}
	return snapshotFrom(kept), dropped
}

// snapshotFrom normalizes arbitrary placements into snapshot form: stable
// sort by (column, order), then dense renumbering per column.
func snapshotFrom(ps []Placement) Snapshot {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Column != ps[j].Column {
			return ps[i].Column < ps[j].Column
		}
		return ps[i].Order < ps[j].Order
	})
	order := 0
	for i := range ps {
		if i > 0 && ps[i].Column != ps[i-1].Column {
			order = 0
		}
		ps[i].Order = order
		order++
	}
	return Snapshot{placements: ps}
}
