// Package layout holds the placement model for the dashboard board: which
// widget sits in which column, at which position. The model is a plain data
// structure with no locking; the engine is its only writer and serializes
// access. Every exported operation leaves each column's order values dense
// (0..n-1), so a snapshot taken at any point is well formed.
package layout

import "slices"

// Placement locates one widget on the board.
type Placement struct {
	WidgetID string `json:"widgetId"`
	Column   int    `json:"columnIndex"`
	Order    int    `json:"order"`
}

// Model is the authoritative arrangement of widgets across a fixed number of
// columns. A widget appears in exactly one column, at exactly one position.
type Model struct {
	columns int
	cols    [][]string     // cols[c] lists widget IDs in visual order
	at      map[string]int // widget ID -> column
}

// NewModel creates an empty model with the given column count.
func NewModel(columns int) *Model {
	if columns < 1 {
		panic("layout: column count must be at least 1")
	}
	return &Model{
		columns: columns,
		cols:    make([][]string, columns),
		at:      make(map[string]int),
	}
}

// Columns returns the column count.
func (m *Model) Columns() int {
	return m.columns
}

// Column returns the widget IDs of one column in visual order.
// Out-of-range columns return nil.
func (m *Model) Column(col int) []string {
	if col < 0 || col >= m.columns {
		return nil
	}
	return slices.Clone(m.cols[col])
}

// Widgets returns all widget IDs in column-major visual order.
func (m *Model) Widgets() []string {
	var out []string
	for _, c := range m.cols {
		out = append(out, c...)
	}
	return out
}

// Len returns the number of placed widgets.
func (m *Model) Len() int {
	return len(m.at)
}

// Find returns the placement of a widget.
func (m *Model) Find(widgetID string) (Placement, bool) {
	mustID(widgetID)
	col, ok := m.at[widgetID]
	if !ok {
		return Placement{}, false
	}
	return Placement{
		WidgetID: widgetID,
		Column:   col,
		Order:    slices.Index(m.cols[col], widgetID),
	}, true
}

// Insert appends a widget to the end of a column. The column is clamped into
// range. Inserting an already placed widget is a no-op, so registration is
// idempotent.
func (m *Model) Insert(widgetID string, col int) {
	mustID(widgetID)
	if _, ok := m.at[widgetID]; ok {
		return
	}
	col = clamp(col, 0, m.columns-1)
	m.cols[col] = append(m.cols[col], widgetID)
	m.at[widgetID] = col
}

// Remove takes a widget off the board. Returns false if it was not placed.
func (m *Model) Remove(widgetID string) bool {
	mustID(widgetID)
	col, ok := m.at[widgetID]
	if !ok {
		return false
	}
	i := slices.Index(m.cols[col], widgetID)
	m.cols[col] = slices.Delete(m.cols[col], i, i+1)
	delete(m.at, widgetID)
	return true
}

// MoveWithinColumn repositions a widget inside its current column. The target
// index is clamped to the column bounds. Returns false if the widget is not
// placed; moving to the current position is a no-op.
func (m *Model) MoveWithinColumn(widgetID string, targetIndex int) bool {
	mustID(widgetID)
	col, ok := m.at[widgetID]
	if !ok {
		return false
	}
	return m.MoveToColumn(widgetID, col, targetIndex)
}

// MoveToColumn moves a widget to a position in a (possibly different) column.
// Both the column and the target index are clamped into range. Sibling orders
// in the affected columns stay dense. Returns false if the widget is not
// placed.
func (m *Model) MoveToColumn(widgetID string, col, targetIndex int) bool {
	mustID(widgetID)
	from, ok := m.at[widgetID]
	if !ok {
		return false
	}
	col = clamp(col, 0, m.columns-1)

	i := slices.Index(m.cols[from], widgetID)
	m.cols[from] = slices.Delete(m.cols[from], i, i+1)

	targetIndex = clamp(targetIndex, 0, len(m.cols[col]))
	m.cols[col] = slices.Insert(m.cols[col], targetIndex, widgetID)
	m.at[widgetID] = col
	return true
}

// Capture returns an immutable snapshot of the current arrangement.
func (m *Model) Capture() Snapshot {
	var ps []Placement
	for c, ids := range m.cols {
		for o, id := range ids {
			ps = append(ps, Placement{WidgetID: id, Column: c, Order: o})
		}
	}
	return Snapshot{placements: ps}
}

// Apply replaces the arrangement with a snapshot. Placements naming columns
// beyond the model's range are clamped into the last column. Apply(Capture())
// leaves the model unchanged.
func (m *Model) Apply(s Snapshot) {
	m.cols = make([][]string, m.columns)
	m.at = make(map[string]int, len(s.placements))
	for _, p := range s.placements {
		if _, ok := m.at[p.WidgetID]; ok {
			continue
		}
		col := clamp(p.Column, 0, m.columns-1)
		m.cols[col] = append(m.cols[col], p.WidgetID)
		m.at[p.WidgetID] = col
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustID(widgetID string) {
	if widgetID == "" {
		panic("layout: empty widget ID")
	}
}
