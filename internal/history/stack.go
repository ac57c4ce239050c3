// Package history keeps the undo/redo record of board arrangements as a
// past/present/future stack of snapshots. Only committed arrangements enter
// the stack; tentative drag states never do, so undo and redo always land on
// a state the user deliberately produced.
package history

import "paneldeck/internal/layout"

// DefaultLimit bounds how many past arrangements are retained.
const DefaultLimit = 50

// Stack is a bounded undo/redo stack. Not safe for concurrent use; the
// engine serializes access.
type Stack struct {
	past    []layout.Snapshot
	present layout.Snapshot
	future  []layout.Snapshot
	limit   int
}

// New creates a stack whose present is the given snapshot. A non-positive
// limit falls back to DefaultLimit.
func New(initial layout.Snapshot, limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{present: initial, limit: limit}
}

// Present returns the current arrangement.
func (s *Stack) Present() layout.Snapshot {
	return s.present
}

// Record makes next the present, pushing the old present onto the past and
// clearing the future. When the past exceeds the limit the oldest entry is
// dropped. Recording a snapshot equal to the present is a no-op; returns
// whether anything was recorded.
func (s *Stack) Record(next layout.Snapshot) bool {
	if next.Equal(s.present) {
		return false
	}
	s.past = append(s.past, s.present)
	if len(s.past) > s.limit {
		s.past = s.past[1:]
	}
	s.present = next
	s.future = nil
	return true
}

// Undo steps back one arrangement. Returns false when there is nothing to
// undo.
func (s *Stack) Undo() (layout.Snapshot, bool) {
	if len(s.past) == 0 {
		return layout.Snapshot{}, false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = append(s.future, s.present)
	s.present = prev
	return prev, true
}

// Redo reapplies the most recently undone arrangement. Returns false when
// there is nothing to redo.
func (s *Stack) Redo() (layout.Snapshot, bool) {
	if len(s.future) == 0 {
		return layout.Snapshot{}, false
	}
	next := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]
	s.past = append(s.past, s.present)
	s.present = next
	return next, true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack) CanUndo() bool {
	return len(s.past) > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Stack) CanRedo() bool {
	return len(s.future) > 0
}

// Depths returns the past and future stack sizes.
func (s *Stack) Depths() (past, future int) {
	return len(s.past), len(s.future)
}
