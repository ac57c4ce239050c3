package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextPromptModal asks for a single line of text and emits a message built
// from the trimmed value.
type TextPromptModal struct {
	title    string
	help     string
	input    textinput.Model
	onSubmit func(value string) tea.Msg
}

// Ensure TextPromptModal implements View.
var _ View = (*TextPromptModal)(nil)

// NewPresetSaveModal prompts for a name to save the current layout under.
func NewPresetSaveModal() *TextPromptModal {
	ti := textinput.New()
	ti.Placeholder = "preset-name"
	ti.Width = 40
	ti.Focus()
	return &TextPromptModal{
		title: "Save preset",
		help:  "Enter: save  Esc: cancel",
		input: ti,
		onSubmit: func(value string) tea.Msg {
			return SavePresetMsg{Name: value}
		},
	}
}

// NewPresetRenameModal prompts for a new name for the given preset. The
// field starts prefilled with the old name for editing in place.
func NewPresetRenameModal(old string) *TextPromptModal {
	ti := textinput.New()
	ti.Placeholder = "new-name"
	ti.Width = 40
	ti.SetValue(old)
	ti.CursorEnd()
	ti.Focus()
	return &TextPromptModal{
		title: fmt.Sprintf("Rename %q", old),
		help:  "Enter: rename  Esc: cancel",
		input: ti,
		onSubmit: func(value string) tea.Msg {
			return RenamePresetMsg{Old: old, New: value}
		},
	}
}

// Init implements View.
func (m *TextPromptModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *TextPromptModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value != "" {
				return m, func() tea.Msg { return m.onSubmit(value) }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *TextPromptModal) View() string {
	content := Styles.Title.Render(m.title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render(m.help)
	return Styles.Box.Render(content)
}
