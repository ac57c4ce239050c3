// Package ui renders the panel board and routes terminal input into the
// layout engine's gesture adapters.
//
// Core pieces:
//   - View: a screen or major UI region with its own model, update, view (Elm-style)
//   - Board: the panel grid; computes geometry once and reuses it for hit-testing
//   - FocusManager: keyboard focus traversal over the live arrangement
//   - OverlayStack: modal views stacked over the board (prompts, pickers, confirms)
//   - KeybindRegistry/KeyHandler: leader-key sequences dispatched as messages
//
// The App at the root owns the stack: overlays see keys first, then leader
// sequences, then the board.
package ui
