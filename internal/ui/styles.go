package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, focus
	ColorHighlight = "205" // Magenta - for the grabbed panel, selected items
	ColorDanger    = "196" // Red - for warnings, errors
	ColorMuted     = "241" // Gray - for dimmed text, hints, idle borders
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for warning-level feed lines
	ColorBar       = "236" // Dark gray - status bar background
)

// Styles contains shared style definitions used across the board and modals.
var Styles = struct {
	// Title styles
	Title        lipgloss.Style // Bold accent color - for modal titles
	TitleWarning lipgloss.Style // Bold danger color - for confirm titles

	// Panel styles
	Panel        lipgloss.Style // Idle panel border
	PanelFocused lipgloss.Style // Keyboard-focused panel border
	PanelGrabbed lipgloss.Style // Panel riding a gesture; doubles as the drop indicator

	// Box styles
	Box        lipgloss.Style // Standard modal box (highlight border)
	BoxDanger  lipgloss.Style // Confirmation box (danger border)
	BoxCompact lipgloss.Style // Compact box with less padding (for lists)

	// Text styles
	Selected  lipgloss.Style // Highlighted/selected items (bold highlight color)
	Muted     lipgloss.Style // Dimmed text (muted color)
	Normal    lipgloss.Style // Normal text (text color)
	Hint      lipgloss.Style // Help/hint text (muted color)
	Empty     lipgloss.Style // Empty state text (muted, italic)
	Label     lipgloss.Style // Modal label/content (default)
	Details   lipgloss.Style // Confirm details (warning color)
	ErrorLine lipgloss.Style // Error-level feed lines
	WarnLine  lipgloss.Style // Warning-level feed lines

	// Chrome
	StatusBar  lipgloss.Style // Bottom bar
	LiveRegion lipgloss.Style // Announcement line above the bar
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Panel: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)),
	PanelFocused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)),
	PanelGrabbed: lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	BoxCompact: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1).
		Margin(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Label: lipgloss.NewStyle(),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	ErrorLine: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	WarnLine: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	StatusBar: lipgloss.NewStyle().
		Background(lipgloss.Color(ColorBar)).
		Foreground(lipgloss.Color(ColorText)),
	LiveRegion: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
}

// NewCompactListDelegate returns a delegate with zero spacing and shared styles.
// This factory standardizes list delegate configuration across the modals.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = false
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected
	d.Styles.NormalTitle = Styles.Muted
	d.Styles.NormalDesc = Styles.Muted
	return d
}
