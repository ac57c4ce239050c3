package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paneldeck/internal/engine"
	"paneldeck/internal/feed"
	"paneldeck/internal/input"
	"paneldeck/internal/ui/textutil"
)

// Board renders the engine's columns as panels and feeds mouse and
// keyboard events into the gesture adapters. It implements input.Surface
// from its own geometry, so hit-testing always agrees with what was drawn.
type Board struct {
	eng    *engine.Engine
	panels map[string]Panel
	feeds  map[string]*feed.Tailer

	pointer  *input.Pointer
	keyboard *input.Keyboard
	focus    *FocusManager

	width, height int
	notice        string
	liveText      string
}

// Ensure Board implements View and the adapters' Surface.
var _ View = (*Board)(nil)
var _ input.Surface = (*Board)(nil)

// NewBoard creates a board over the engine. panels supply titles and feed
// routing for the engine's widgets; feeds are matched to panels by name.
func NewBoard(eng *engine.Engine, panels []Panel, feeds []*feed.Tailer) *Board {
	b := &Board{
		eng:    eng,
		panels: make(map[string]Panel, len(panels)),
		feeds:  make(map[string]*feed.Tailer, len(feeds)),
	}
	for _, p := range panels {
		b.panels[p.ID] = p
	}
	for _, t := range feeds {
		b.feeds[t.Name()] = t
	}
	b.focus = NewFocusManager(eng)
	b.focus.OnChange = func(_, to string) {
		b.liveText = b.titleOf(to) + " focused"
	}
	b.pointer = input.NewPointer(eng, b)
	b.keyboard = input.NewKeyboard(eng, eng, func(text string) {
		b.liveText = text
	})
	return b
}

// Init implements View.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (b *Board) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case NoticeMsg:
		b.notice = string(msg)
	case AnnounceMsg:
		b.liveText = string(msg)
	case tea.MouseMsg:
		b.handleMouse(tea.MouseEvent(msg))
	case tea.KeyMsg:
		b.handleKey(msg.String())
	}
	return b, nil
}

// handleMouse maps terminal mouse events onto the pointer adapter. Cell
// coordinates are the adapter's surface coordinates, no translation.
func (b *Board) handleMouse(m tea.MouseEvent) {
	switch {
	case m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft:
		if id, ok := b.WidgetAt(m.X, m.Y); ok {
			b.focus.Set(id)
		}
		b.pointer.Handle(input.PointerEvent{Kind: input.PointerPress, X: m.X, Y: m.Y})
	case m.Action == tea.MouseActionMotion:
		b.pointer.Handle(input.PointerEvent{Kind: input.PointerMove, X: m.X, Y: m.Y})
	case m.Action == tea.MouseActionRelease:
		b.pointer.Handle(input.PointerEvent{Kind: input.PointerRelease, X: m.X, Y: m.Y})
	}
}

// handleKey drives focus traversal and the keyboard gesture. Arrows move
// the grabbed widget while a keyboard gesture is live and move focus
// otherwise.
func (b *Board) handleKey(s string) {
	switch s {
	case "tab":
		b.focus.Next()
	case "shift+tab":
		b.focus.Prev()
	case "enter":
		if id := b.focus.Ensure(); id != "" {
			b.keyboard.Activate(id)
		}
	case "esc":
		if _, ok := b.keyboard.Grabbed(); ok {
			b.keyboard.Escape()
			return
		}
		b.pointer.Cancel()
	case "up", "k":
		if b.keyboardGestureActive() {
			b.keyboard.MoveUp()
		} else {
			b.focus.Up()
		}
	case "down", "j":
		if b.keyboardGestureActive() {
			b.keyboard.MoveDown()
		} else {
			b.focus.Down()
		}
	case "left", "h":
		if b.keyboardGestureActive() {
			b.keyboard.MoveLeft()
		} else {
			b.focus.Left()
		}
	case "right", "l":
		if b.keyboardGestureActive() {
			b.keyboard.MoveRight()
		} else {
			b.focus.Right()
		}
	}
}

// keyboardGestureActive reports whether the keyboard adapter's grab is
// still the engine's live gesture. Engaging the lock force-cancels
// engine-side; when that happened the adapter is resynced here so arrows
// fall back to focus moves immediately.
func (b *Board) keyboardGestureActive() bool {
	if _, ok := b.keyboard.Grabbed(); !ok {
		return false
	}
	if _, src, ok := b.eng.ActiveGesture(); ok && src == input.SourceKeyboard {
		return true
	}
	b.keyboard.Escape()
	return false
}

// ColumnAt implements input.Surface.
func (b *Board) ColumnAt(x int) (int, bool) {
	return b.geometry().columnAt(x)
}

// WidgetAt implements input.Surface.
func (b *Board) WidgetAt(x, y int) (string, bool) {
	return b.geometry().widgetAt(x, y)
}

// ColumnBoxes implements input.Surface.
func (b *Board) ColumnBoxes(col int) []input.Box {
	g := b.geometry()
	if col < 0 || col >= len(g.Columns) {
		return nil
	}
	return g.Columns[col].Boxes
}

// geometry computes the current arrangement, defaulting to 80x24 before
// the first WindowSizeMsg arrives.
func (b *Board) geometry() boardGeom {
	w, h := b.width, b.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return computeGeometry(w, h, b.eng)
}

// View implements View.
func (b *Board) View() string {
	g := b.geometry()
	grabbed, _, hasGesture := b.eng.ActiveGesture()
	focused := b.focus.Ensure()

	cols := make([]string, len(g.Columns))
	for c, cg := range g.Columns {
		stack := make([]string, 0, len(cg.Boxes))
		for _, box := range cg.Boxes {
			isGrabbed := hasGesture && box.WidgetID == grabbed
			isFocused := !isGrabbed && box.WidgetID == focused
			stack = append(stack, b.renderPanel(box.WidgetID, cg.Width, box.Height, isGrabbed, isFocused))
		}
		col := lipgloss.JoinVertical(lipgloss.Left, stack...)
		cols[c] = lipgloss.NewStyle().
			Width(cg.Width).
			Height(g.ContentHeight).
			MaxHeight(g.ContentHeight).
			Render(col)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	live := Styles.LiveRegion.Width(g.Width).Render(textutil.Truncate(b.liveText, g.Width))
	return lipgloss.JoinVertical(lipgloss.Left, row, live, b.statusBar(g.Width))
}

// renderPanel draws one widget's box. The grabbed panel rides the gesture
// at its live position; its double border is the drop indicator.
func (b *Board) renderPanel(id string, w, h int, grabbed, focused bool) string {
	style := Styles.Panel
	switch {
	case grabbed:
		style = Styles.PanelGrabbed
	case focused:
		style = Styles.PanelFocused
	}
	innerW, innerH := w-2, h-2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	title := b.titleOf(id)
	if grabbed {
		title = "≡ " + title
	}
	titleLine := textutil.Truncate(title, innerW)
	if grabbed {
		titleLine = Styles.Selected.Render(titleLine)
	} else {
		titleLine = Styles.Normal.Render(titleLine)
	}

	lines := append([]string{titleLine}, b.panelBody(b.panels[id], innerW, innerH-1)...)
	return style.Width(innerW).Height(innerH).MaxHeight(h).Render(strings.Join(lines, "\n"))
}

// panelBody fills a panel with its feed's newest entries, topped by a
// sparkline when the feed extracts numeric samples. Panels without a feed
// show a placeholder.
func (b *Board) panelBody(p Panel, w, h int) []string {
	if h <= 0 {
		return nil
	}
	t := b.feeds[p.Feed]
	if t == nil {
		return []string{Styles.Empty.Render(textutil.Truncate("no feed attached", w))}
	}

	entries := t.Recent()
	values := t.Values()
	rows := h
	var out []string
	if len(values) > 0 && rows > 1 {
		out = append(out, Styles.Normal.Render(feed.Sparkline(values, w)))
		rows--
	}
	if len(entries) > rows {
		entries = entries[len(entries)-rows:]
	}
	for _, e := range entries {
		line := textutil.Truncate(e.Timestamp.Format("15:04:05")+" "+e.Message, w)
		switch e.Level {
		case "error":
			line = Styles.ErrorLine.Render(line)
		case "warn", "warning":
			line = Styles.WarnLine.Render(line)
		default:
			line = Styles.Normal.Render(line)
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		out = []string{Styles.Empty.Render(textutil.Truncate("waiting for entries", w))}
	}
	return out
}

// statusBar assembles the bottom bar: last notice on the left, preset and
// lock state on the right.
func (b *Board) statusBar(w int) string {
	left := b.notice
	if left == "" {
		left = "SPC commands · Enter grabs · arrows move · u undo"
	}
	var seg []string
	if name, ok := b.eng.ActivePreset(); ok {
		seg = append(seg, "⊙ "+name)
	}
	if b.eng.Locked() {
		seg = append(seg, "locked")
	}
	right := strings.Join(seg, " │ ")
	if right != "" {
		right += " "
	}
	right = textutil.Truncate(right, w)
	bar := textutil.PadRightVisual(left, w-textutil.VisualWidth(right)) + right
	return Styles.StatusBar.Width(w).Render(bar)
}

func (b *Board) titleOf(id string) string {
	if p, ok := b.panels[id]; ok && p.Title != "" {
		return p.Title
	}
	return id
}
