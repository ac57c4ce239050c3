package input

import (
	"sync"
	"time"
)

// TouchEventKind distinguishes the touch lifecycle events.
type TouchEventKind int

const (
	TouchBegin TouchEventKind = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// TouchEvent is one touch-point event in surface coordinates.
type TouchEvent struct {
	Kind TouchEventKind
	X, Y int
}

// Touch state machine phases.
type touchPhase int

const (
	touchIdle touchPhase = iota
	touchPending
	touchDragging
)

// Touch adapter defaults.
const (
	DefaultLongPress = 300 * time.Millisecond
	DefaultSlop      = 10
)

// TouchConfig tunes the long-press recognition.
type TouchConfig struct {
	// LongPress is how long a finger must rest before a drag starts
	// without movement. Zero means DefaultLongPress.
	LongPress time.Duration

	// Slop is the movement radius, in surface units, treated as finger
	// jitter rather than intent. Zero means DefaultSlop.
	Slop int
}

// AfterFunc schedules fn after d and returns a stop function. Production
// uses time.AfterFunc; tests inject a hand-cranked scheduler.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

// Touch is the touch drag adapter. A touch on a widget arms a long-press
// timer (Pending). The timer firing, or decisive horizontal movement,
// promotes to Dragging; decisive vertical movement abandons the gesture so
// the surface can scroll. No verb reaches the sink until promotion, so an
// abandoned pending touch never disturbs the board.
//
// The timer fires on its own goroutine; all entry points serialize on a
// mutex and a sequence number ignores stale fires.
type Touch struct {
	sink    Sink
	surface Surface
	cfg     TouchConfig
	after   AfterFunc

	mu        sync.Mutex
	phase     touchPhase
	widget    string
	startX    int
	startY    int
	lastX     int
	lastY     int
	timerSeq  int
	stopTimer func() bool
}

// NewTouch creates a touch adapter. A nil after uses time.AfterFunc.
func NewTouch(sink Sink, surface Surface, cfg TouchConfig, after AfterFunc) *Touch {
	if cfg.LongPress <= 0 {
		cfg.LongPress = DefaultLongPress
	}
	if cfg.Slop <= 0 {
		cfg.Slop = DefaultSlop
	}
	if after == nil {
		after = func(d time.Duration, fn func()) func() bool {
			return time.AfterFunc(d, fn).Stop
		}
	}
	return &Touch{sink: sink, surface: surface, cfg: cfg, after: after}
}

// Handle feeds one touch event through the state machine.
func (t *Touch) Handle(ev TouchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case TouchBegin:
		t.begin(ev.X, ev.Y)
	case TouchMove:
		t.move(ev.X, ev.Y)
	case TouchEnd:
		t.end()
	case TouchCancel:
		t.cancel()
	}
}

// ForceCancel abandons whatever is in flight, as a platform cancel would.
func (t *Touch) ForceCancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
}

// Dragging returns the widget under an active drag, if any.
func (t *Touch) Dragging() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != touchDragging {
		return "", false
	}
	return t.widget, true
}

// Pending reports whether a long-press timer is armed.
func (t *Touch) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase == touchPending
}

func (t *Touch) begin(x, y int) {
	if t.phase != touchIdle {
		// A second touch point while one is tracked: treat as platform
		// cancel, single-touch surface.
		t.cancel()
	}
	id, ok := t.surface.WidgetAt(x, y)
	if !ok {
		return
	}
	t.phase = touchPending
	t.widget = id
	t.startX, t.startY = x, y
	t.lastX, t.lastY = x, y

	t.timerSeq++
	seq := t.timerSeq
	t.stopTimer = t.after(t.cfg.LongPress, func() {
		t.timerFired(seq)
	})
}

func (t *Touch) move(x, y int) {
	switch t.phase {
	case touchPending:
		t.lastX, t.lastY = x, y
		dx := abs(x - t.startX)
		dy := abs(y - t.startY)
		if dx <= t.cfg.Slop && dy <= t.cfg.Slop {
			return // jitter
		}
		if dx > dy {
			t.promote()
			return
		}
		// Vertical intent: the finger is scrolling, not dragging.
		t.disarm()

	case touchDragging:
		t.lastX, t.lastY = x, y
		t.track(x, y)
	}
}

func (t *Touch) end() {
	switch t.phase {
	case touchPending:
		t.disarm() // a tap, nothing grabbed
	case touchDragging:
		id := t.widget
		t.resetToIdle()
		t.sink.CommitGesture(id)
	}
}

func (t *Touch) cancel() {
	switch t.phase {
	case touchPending:
		t.disarm()
	case touchDragging:
		id := t.widget
		t.resetToIdle()
		t.sink.CancelGesture(id)
	}
}

// timerFired promotes a still-pending touch to a drag. Stale fires (the
// touch ended, or a new one started) are ignored via the sequence number.
func (t *Touch) timerFired(seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase != touchPending || seq != t.timerSeq {
		return
	}
	t.promote()
}

// promote asks the sink for the grab. Refusal (locked, or another gesture
// holds the board) drops straight back to idle.
func (t *Touch) promote() {
	if t.stopTimer != nil {
		t.stopTimer()
		t.stopTimer = nil
	}
	if !t.sink.BeginGesture(t.widget, SourceTouch) {
		t.resetToIdle()
		return
	}
	t.phase = touchDragging
	t.track(t.lastX, t.lastY)
}

// track hit-tests under the finger and proposes the landing position.
func (t *Touch) track(x, y int) {
	col, ok := t.surface.ColumnAt(x)
	if !ok {
		return
	}
	idx := InsertionIndex(t.surface.ColumnBoxes(col), y, t.widget)
	t.sink.UpdateTarget(t.widget, col, idx)
}

// disarm stops the timer and returns to idle without speaking any verb.
func (t *Touch) disarm() {
	t.resetToIdle()
}

func (t *Touch) resetToIdle() {
	if t.stopTimer != nil {
		t.stopTimer()
		t.stopTimer = nil
	}
	t.phase = touchIdle
	t.widget = ""
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
