// Package textutil provides unicode-aware text helpers for terminal
// rendering. Widths are visual columns, not bytes or runes, so CJK and
// other wide characters line up.
package textutil

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is appended when Truncate has to cut a string short.
const TruncateEllipsis = "…"

// VisualWidth returns the number of terminal columns a string occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// VisualWidthStyled returns the visual width of a string that may carry
// ANSI escape sequences.
func VisualWidthStyled(s string) int {
	return lipgloss.Width(s)
}

// Truncate cuts a string to at most maxWidth visual columns, appending an
// ellipsis when anything was removed.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= VisualWidth(TruncateEllipsis) {
		return TruncateEllipsis
	}
	return runewidth.Truncate(s, maxWidth, TruncateEllipsis)
}

// PadRightVisual pads with trailing spaces up to targetWidth columns.
// Strings already wider than the target are truncated instead.
func PadRightVisual(s string, targetWidth int) string {
	if VisualWidth(s) >= targetWidth {
		return Truncate(s, targetWidth)
	}
	return runewidth.FillRight(s, targetWidth)
}

// PadLeftVisual pads with leading spaces up to targetWidth columns.
// Strings already wider than the target are truncated instead.
func PadLeftVisual(s string, targetWidth int) string {
	if VisualWidth(s) >= targetWidth {
		return Truncate(s, targetWidth)
	}
	return runewidth.FillLeft(s, targetWidth)
}
