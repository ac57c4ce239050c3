package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paneldeck/internal/trace"
	"paneldeck/internal/ui/textutil"
)

// SessionsView displays recent gesture sessions as an ASCII tree in a
// scrollable overlay. It renders a snapshot taken when the overlay opened.
type SessionsView struct {
	sessions []*trace.Session
	viewport viewport.Model
}

// Ensure SessionsView implements View.
var _ View = (*SessionsView)(nil)

// NewSessionsView creates the sessions overlay.
func NewSessionsView(sessions []*trace.Session) *SessionsView {
	vp := viewport.New(70, 18)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1)
	v := &SessionsView{
		sessions: sessions,
		viewport: vp,
	}
	v.refreshContent()
	return v
}

// Init implements View.
func (v *SessionsView) Init() tea.Cmd {
	return v.viewport.Init()
}

// Update implements View.
func (v *SessionsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 8
		if w > 90 {
			w = 90
		}
		if w < 30 {
			w = 30
		}
		h := msg.Height - 6
		if h > 24 {
			h = 24
		}
		if h < 6 {
			h = 6
		}
		v.viewport.Width = w
		v.viewport.Height = h
		return v, nil
	case tea.KeyMsg:
		// Handle viewport scrolling keys
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg { return DismissModalMsg{} }
		case "j", "down":
			v.viewport.LineDown(1)
			return v, nil
		case "k", "up":
			v.viewport.LineUp(1)
			return v, nil
		case "ctrl+d", "pgdown":
			v.viewport.PageDown()
			return v, nil
		case "ctrl+u", "pgup":
			v.viewport.PageUp()
			return v, nil
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View implements View.
func (v *SessionsView) View() string {
	return v.viewport.View() + "\n" + Styles.Hint.Render("j/k: scroll  g/G: top/bottom  Esc: close")
}

// refreshContent rebuilds the viewport content from the session snapshot.
func (v *SessionsView) refreshContent() {
	if len(v.sessions) == 0 {
		v.viewport.SetContent(Styles.Empty.Render("no sessions recorded"))
		return
	}

	var lines []string
	for i, s := range v.sessions {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, v.renderSession(s)...)
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
}

// renderSession renders one session header plus its gesture and operation
// spans. Children are flat under the session root, so the tree is one
// level deep.
func (v *SessionsView) renderSession(s *trace.Session) []string {
	dur := formatDuration(sessionDuration(s))
	if dur == "" {
		dur = "0s"
	}
	statusIcon := "✓"
	statusColor := "2"
	if s.Status == "running" {
		statusIcon = "●"
		statusColor = ColorWarning
	}
	header := fmt.Sprintf("Session %s (%s) %s",
		shortSessionID(s.ID),
		dur,
		lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render(statusIcon+" "+s.Status))
	lines := []string{Styles.Title.Render(header)}

	if len(s.Children) == 0 {
		lines = append(lines, Styles.Muted.Render("  (no gestures yet)"))
		return lines
	}
	for i, span := range s.Children {
		connector := "├─"
		if i == len(s.Children)-1 {
			connector = "└─"
		}
		lines = append(lines, connector+" "+renderSessionSpan(span))
	}
	return lines
}

// renderSessionSpan renders one child span. Gesture spans show the widget,
// a right-aligned duration, and (source, outcome); operation spans show
// the operation name and its attributes.
func renderSessionSpan(span *trace.Span) string {
	switch span.Type {
	case trace.EventGestureStart:
		dur := formatDuration(span.Duration)
		outcome := span.Attributes["outcome"]
		if outcome == "" {
			dur = "..."
			outcome = "in flight"
		}
		detail := "(" + span.Attributes["source"] + ", " + outcome + ")"
		return span.Name + " " +
			Styles.Muted.Render(textutil.PadLeftVisual(dur, 7)) + " " +
			Styles.Muted.Render(detail)
	default:
		name := span.Name
		if name == "" {
			name = "(unnamed)"
		}
		if attrs := formatAttributes(span.Attributes); attrs != "" {
			return name + " " + Styles.Muted.Render(attrs)
		}
		return name
	}
}

// formatAttributes renders span attributes as a stable "(k=v, k=v)" list.
func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func sessionDuration(s *trace.Session) time.Duration {
	if s.Status == "completed" {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// formatDuration formats a duration at a precision that suits gestures:
// sub-second values keep milliseconds, longer ones read like uptimes.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		d = d.Round(time.Minute)
		return fmt.Sprintf("%dh%dm", d/time.Hour, (d%time.Hour)/time.Minute)
	case d >= time.Minute:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%ds", d/time.Minute, (d%time.Minute)/time.Second)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d > 0:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return ""
}

// shortSessionID returns a shortened session ID for display.
func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
