package input

import "fmt"

// Keyboard is the keyboard rearrange adapter. Activation grabs the focused
// widget; arrows then swap it with its neighbor or relocate it into the
// adjacent column at the closest position; a second activation drops it and
// Escape cancels. Moves at the board edge stay put and announce the
// boundary instead.
type Keyboard struct {
	sink     Sink
	pos      Positioner
	announce func(string)

	grabbed string
}

// NewKeyboard creates a keyboard adapter. announce receives boundary
// notices for assistive output; nil is allowed.
func NewKeyboard(sink Sink, pos Positioner, announce func(string)) *Keyboard {
	if announce == nil {
		announce = func(string) {}
	}
	return &Keyboard{sink: sink, pos: pos, announce: announce}
}

// Activate toggles the grab on a widget: first call grabs, second call on
// the same widget drops it at its current position.
func (k *Keyboard) Activate(widgetID string) {
	if k.grabbed == "" {
		if k.sink.BeginGesture(widgetID, SourceKeyboard) {
			k.grabbed = widgetID
		}
		return
	}
	if k.grabbed == widgetID {
		id := k.grabbed
		k.grabbed = ""
		k.sink.CommitGesture(id)
	}
	// Activating some other widget mid-gesture is ignored; focus should
	// not leave a grabbed widget.
}

// Escape cancels the grab, restoring the pre-grab arrangement.
func (k *Keyboard) Escape() {
	if k.grabbed == "" {
		return
	}
	id := k.grabbed
	k.grabbed = ""
	k.sink.CancelGesture(id)
}

// Grabbed returns the grabbed widget, if any.
func (k *Keyboard) Grabbed() (string, bool) {
	return k.grabbed, k.grabbed != ""
}

// MoveUp swaps the grabbed widget with the one above it.
func (k *Keyboard) MoveUp() {
	col, idx, ok := k.placement()
	if !ok {
		return
	}
	if idx == 0 {
		k.announce(fmt.Sprintf("%s is already at the top of column %d", k.grabbed, col+1))
		return
	}
	k.sink.UpdateTarget(k.grabbed, col, idx-1)
}

// MoveDown swaps the grabbed widget with the one below it.
func (k *Keyboard) MoveDown() {
	col, idx, ok := k.placement()
	if !ok {
		return
	}
	if idx >= k.pos.ColumnLen(col)-1 {
		k.announce(fmt.Sprintf("%s is already at the bottom of column %d", k.grabbed, col+1))
		return
	}
	k.sink.UpdateTarget(k.grabbed, col, idx+1)
}

// MoveLeft relocates the grabbed widget into the column to the left,
// keeping its vertical position as far as the column allows.
func (k *Keyboard) MoveLeft() {
	col, idx, ok := k.placement()
	if !ok {
		return
	}
	if col == 0 {
		k.announce(fmt.Sprintf("%s is already in the leftmost column", k.grabbed))
		return
	}
	k.sink.UpdateTarget(k.grabbed, col-1, clampIndex(idx, k.pos.ColumnLen(col-1)))
}

// MoveRight relocates the grabbed widget into the column to the right.
func (k *Keyboard) MoveRight() {
	col, idx, ok := k.placement()
	if !ok {
		return
	}
	if col >= k.pos.Columns()-1 {
		k.announce(fmt.Sprintf("%s is already in the rightmost column", k.grabbed))
		return
	}
	k.sink.UpdateTarget(k.grabbed, col+1, clampIndex(idx, k.pos.ColumnLen(col+1)))
}

func (k *Keyboard) placement() (col, idx int, ok bool) {
	if k.grabbed == "" {
		return 0, 0, false
	}
	col, idx, ok = k.pos.Placement(k.grabbed)
	if !ok {
		// The widget vanished under us (engine force-cancelled and the
		// arrangement moved on); drop the stale grab silently.
		k.grabbed = ""
	}
	return col, idx, ok
}

func clampIndex(idx, max int) int {
	if idx > max {
		return max
	}
	return idx
}
