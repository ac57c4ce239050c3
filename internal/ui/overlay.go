package ui

import tea "github.com/charmbracelet/bubbletea"

// OverlayStack manages modal views stacked over the board; the topmost
// receives input. Modals dismiss themselves by emitting DismissModalMsg,
// which pops one level, so a confirmation pushed over a picker returns to
// the picker on Esc.
type OverlayStack struct {
	stack []View
}

// NewOverlayStack creates an empty stack.
func NewOverlayStack() *OverlayStack {
	return &OverlayStack{}
}

// Push adds a modal on top of the stack.
func (s *OverlayStack) Push(v View) {
	s.stack = append(s.stack, v)
}

// Pop removes the top modal. No-op when empty.
func (s *OverlayStack) Pop() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Clear drops every modal, used when a completed action retires the whole
// flow (picker plus confirmation at once).
func (s *OverlayStack) Clear() {
	s.stack = nil
}

// Top returns the top modal, or nil when none is open.
func (s *OverlayStack) Top() View {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Len returns how many modals are open.
func (s *OverlayStack) Len() int {
	return len(s.stack)
}

// UpdateTop passes msg to the top modal's Update and replaces it with the
// result. Returns the modal's command; false when the stack is empty.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	newView, cmd := s.stack[len(s.stack)-1].Update(msg)
	s.stack[len(s.stack)-1] = newView
	return cmd, true
}
