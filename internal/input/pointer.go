package input

// PointerEventKind distinguishes press, move, and release.
type PointerEventKind int

const (
	PointerPress PointerEventKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is one mouse event in surface coordinates.
type PointerEvent struct {
	Kind PointerEventKind
	X, Y int
}

// Pointer is the mouse drag adapter: press on a widget grabs it, every move
// retargets it, release drops it. Two states, idle and dragging.
type Pointer struct {
	sink    Sink
	surface Surface

	dragging  string // grabbed widget, empty when idle
	targetCol int
	targetIdx int
}

// NewPointer creates a pointer adapter speaking into sink and hit-testing
// through surface.
func NewPointer(sink Sink, surface Surface) *Pointer {
	return &Pointer{sink: sink, surface: surface}
}

// Handle feeds one pointer event through the state machine.
func (p *Pointer) Handle(ev PointerEvent) {
	switch ev.Kind {
	case PointerPress:
		if p.dragging != "" {
			return
		}
		id, ok := p.surface.WidgetAt(ev.X, ev.Y)
		if !ok {
			return
		}
		if !p.sink.BeginGesture(id, SourcePointer) {
			return
		}
		p.dragging = id
		p.track(ev.X, ev.Y)

	case PointerMove:
		if p.dragging == "" {
			return
		}
		p.track(ev.X, ev.Y)

	case PointerRelease:
		if p.dragging == "" {
			return
		}
		id := p.dragging
		p.reset()
		p.sink.CommitGesture(id)
	}
}

// Cancel abandons an in-flight drag, restoring the pre-grab arrangement.
// The surface calls this when the pointer leaves its control (terminal
// focus lost, view switched away).
func (p *Pointer) Cancel() {
	if p.dragging == "" {
		return
	}
	id := p.dragging
	p.reset()
	p.sink.CancelGesture(id)
}

// Dragging returns the grabbed widget, if any.
func (p *Pointer) Dragging() (string, bool) {
	return p.dragging, p.dragging != ""
}

// Target returns the current landing position. Meaningful only while
// dragging; the board renders its drop indicator from it.
func (p *Pointer) Target() (column, index int) {
	return p.targetCol, p.targetIdx
}

// track recomputes the landing position under the cursor. Outside any
// column the previous target stays, so a drop there lands at the last
// valid position rather than snapping somewhere surprising.
func (p *Pointer) track(x, y int) {
	col, ok := p.surface.ColumnAt(x)
	if !ok {
		return
	}
	idx := InsertionIndex(p.surface.ColumnBoxes(col), y, p.dragging)
	p.targetCol, p.targetIdx = col, idx
	p.sink.UpdateTarget(p.dragging, col, idx)
}

func (p *Pointer) reset() {
	p.dragging = ""
	p.targetCol, p.targetIdx = 0, 0
}
