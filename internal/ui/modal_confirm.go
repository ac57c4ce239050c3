package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal is a generic confirmation modal.
// Enter or y confirms; Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string // Optional extra line (e.g., "Undo restores the previous arrangement")
	OnConfirm func() tea.Msg
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a generic confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:     title,
		Label:     label,
		OnConfirm: onConfirm,
	}
}

// WithDetails adds an extra detail line to the modal.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewDeletePresetConfirmModal creates a confirmation modal for deleting a preset.
func NewDeletePresetConfirmModal(name string) *ConfirmModal {
	return NewConfirmModal(
		"Delete preset?",
		fmt.Sprintf("Preset: %s", name),
		func() tea.Msg { return DeletePresetMsg{Name: name} },
	)
}

// NewResetLayoutConfirmModal creates a confirmation modal for resetting the
// layout to its default arrangement.
func NewResetLayoutConfirmModal() *ConfirmModal {
	return NewConfirmModal(
		"Reset layout?",
		"All panels return to their default positions",
		func() tea.Msg { return ResetLayoutMsg{} },
	).WithDetails("Undo restores the previous arrangement")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}
