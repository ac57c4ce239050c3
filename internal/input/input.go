// Package input turns raw pointer, touch, and keyboard events into the
// shared gesture verbs: grab, move target, drop, cancel. Each adapter is a
// small state machine that knows nothing about columns' contents or
// persistence; it hit-tests through a Surface and speaks verbs into a Sink.
// The sink (the engine) arbitrates: a grab that returns false means another
// gesture is in flight or the layout is locked, and the adapter stays idle.
package input

// Source identifies which adapter produced a gesture.
type Source string

const (
	SourcePointer  Source = "pointer"
	SourceTouch    Source = "touch"
	SourceKeyboard Source = "keyboard"
)

// Sink receives gesture verbs. Implementations must tolerate verbs for
// gestures they no longer consider active (a forced cancel may race an
// adapter's last event) by ignoring them.
type Sink interface {
	// BeginGesture asks to start a gesture on a widget. false means the
	// request was refused and no gesture exists.
	BeginGesture(widgetID string, source Source) bool

	// UpdateTarget proposes a new landing position for the grabbed widget.
	// The index is expressed in the target column as it would be without
	// the grabbed widget.
	UpdateTarget(widgetID string, column, index int)

	// CommitGesture finalizes the gesture at its current target.
	CommitGesture(widgetID string)

	// CancelGesture abandons the gesture, restoring the pre-grab
	// arrangement.
	CancelGesture(widgetID string)
}

// Box is the vertical extent of one widget inside a column.
type Box struct {
	WidgetID string
	Top      int
	Height   int
}

// Surface answers the geometry questions adapters need for hit-testing.
// The dashboard board implements it from its rendered panel bounds.
type Surface interface {
	// ColumnAt maps a horizontal position to a column.
	ColumnAt(x int) (int, bool)

	// WidgetAt maps a position to the widget rendered there.
	WidgetAt(x, y int) (string, bool)

	// ColumnBoxes lists a column's widget extents in visual order.
	ColumnBoxes(column int) []Box
}

// InsertionIndex computes where a dragged widget would land in a column at
// vertical position y: before the first other widget whose midpoint sits
// below y, or at the end of the column. The returned index counts the
// column's widgets with the dragged one excluded.
func InsertionIndex(boxes []Box, y int, draggedID string) int {
	idx := 0
	for _, b := range boxes {
		if b.WidgetID == draggedID {
			continue
		}
		if y < b.Top+b.Height/2 {
			return idx
		}
		idx++
	}
	return idx
}

// Positioner reports current widget placements. The keyboard adapter moves
// widgets relative to where they are, not where a cursor is, so it reads
// positions instead of hit-testing.
type Positioner interface {
	// Placement returns a widget's column and position within it.
	Placement(widgetID string) (column, index int, ok bool)

	// ColumnLen returns how many widgets a column holds.
	ColumnLen(column int) int

	// Columns returns the column count.
	Columns() int
}
