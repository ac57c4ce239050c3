package engine

import (
	"fmt"

	"go.uber.org/zap"

	"paneldeck/internal/input"
)

// BeginGesture implements input.Sink. It refuses when the layout is locked
// (with a notice) or when another gesture holds the board (silently; the
// competing adapter's state is not the user's problem). On success the
// pre-grab arrangement is captured for cancel and history.
func (e *Engine) BeginGesture(widgetID string, source input.Source) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		e.notifier.Notify("layout is locked")
		return false
	}
	if e.gesture != nil {
		e.logger.Debug("gesture refused, another in flight",
			zap.String("widget", widgetID),
			zap.String("source", string(source)),
			zap.String("holder", e.gesture.widget))
		return false
	}
	if _, ok := e.model.Find(widgetID); !ok {
		return false
	}

	e.gesture = &activeGesture{
		widget:  widgetID,
		source:  source,
		preGrab: e.model.Capture(),
	}
	e.tracer.GestureStarted(widgetID, string(source))
	if source == input.SourceKeyboard {
		e.announcer.Announce(fmt.Sprintf(
			"%s grabbed. Arrow keys move it, Enter drops it, Escape cancels.", widgetID))
	} else {
		e.announcer.Announce(widgetID + " grabbed")
	}
	return true
}

// UpdateTarget implements input.Sink: the tentative move is applied live so
// the board renders the widget where it would land. Verbs for a gesture the
// engine no longer holds are stale and ignored.
func (e *Engine) UpdateTarget(widgetID string, column, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture == nil || e.gesture.widget != widgetID {
		return
	}
	if !e.model.MoveToColumn(widgetID, column, index) {
		return
	}
	if e.gesture.source == input.SourceKeyboard {
		p, _ := e.model.Find(widgetID)
		e.announcer.Announce(fmt.Sprintf("%s moved to column %d, position %d",
			widgetID, p.Column+1, p.Order+1))
	}
}

// CommitGesture implements input.Sink: the arrangement under the gesture
// becomes permanent, entering history and persistence. A commit that
// changed nothing books no history.
func (e *Engine) CommitGesture(widgetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.gesture
	if g == nil || g.widget != widgetID {
		return
	}
	e.gesture = nil

	now := e.model.Capture()
	if now.Equal(g.preGrab) {
		e.tracer.GestureEnded(widgetID, string(g.source), "unchanged")
		e.announcer.Announce(widgetID + " dropped in place")
		return
	}

	e.hist.Record(now)
	e.persistLayoutLocked()
	e.tracer.GestureEnded(widgetID, string(g.source), "committed")
	p, _ := e.model.Find(widgetID)
	e.notifier.Notify("layout updated")
	e.announcer.Announce(fmt.Sprintf("%s dropped at column %d, position %d",
		widgetID, p.Column+1, p.Order+1))
}

// CancelGesture implements input.Sink: the pre-grab arrangement comes back
// exactly, and neither history nor persistence hears about the gesture.
func (e *Engine) CancelGesture(widgetID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.gesture
	if g == nil || g.widget != widgetID {
		return
	}
	e.gesture = nil
	e.model.Apply(g.preGrab)
	e.tracer.GestureEnded(widgetID, string(g.source), "cancelled")
	e.announcer.Announce(widgetID + " returned to its original position")
}

// abortGestureLocked force-cancels whatever gesture is in flight, restoring
// the pre-grab arrangement. Used when the lock engages mid-drag.
func (e *Engine) abortGestureLocked() {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	e.model.Apply(g.preGrab)
	e.tracer.GestureEnded(g.widget, string(g.source), "cancelled")
	e.announcer.Announce(g.widget + " returned to its original position")
}
