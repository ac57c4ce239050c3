package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// PresetPickerModal selects a preset by name from a filterable list.
type PresetPickerModal struct {
	list     list.Model
	help     string
	onSelect func(name string) tea.Msg
}

type presetItem string

func (p presetItem) FilterValue() string { return string(p) }
func (p presetItem) Title() string       { return string(p) }
func (p presetItem) Description() string { return "" }

// Ensure PresetPickerModal implements View.
var _ View = (*PresetPickerModal)(nil)

func newPresetPicker(title, help string, names []string, onSelect func(string) tea.Msg) *PresetPickerModal {
	items := make([]list.Item, len(names))
	for i, n := range names {
		items[i] = presetItem(n)
	}
	delegate := NewCompactListDelegate()
	l := list.New(items, delegate, 40, 12)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	return &PresetPickerModal{
		list:     l,
		help:     help,
		onSelect: onSelect,
	}
}

// NewPresetLoadModal creates a picker that applies the chosen preset.
func NewPresetLoadModal(names []string) *PresetPickerModal {
	return newPresetPicker("Load preset", "Enter: load  Esc: cancel", names,
		func(name string) tea.Msg { return LoadPresetMsg{Name: name} })
}

// NewPresetRenamePickerModal creates a picker that chooses which preset to
// rename; the rename prompt opens on top.
func NewPresetRenamePickerModal(names []string) *PresetPickerModal {
	return newPresetPicker("Rename preset", "Enter: choose  Esc: cancel", names,
		func(name string) tea.Msg { return RenamePresetTargetMsg{Name: name} })
}

// NewPresetDeleteModal creates a picker that chooses which preset to
// delete; a confirmation opens on top.
func NewPresetDeleteModal(names []string) *PresetPickerModal {
	return newPresetPicker("Delete preset", "Enter: choose  Esc: cancel", names,
		func(name string) tea.Msg { return DeletePresetTargetMsg{Name: name} })
}

// Init implements View.
func (m *PresetPickerModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *PresetPickerModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While a filter is being typed, enter and esc belong to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if sel := m.list.SelectedItem(); sel != nil {
				name := string(sel.(presetItem))
				return m, func() tea.Msg { return m.onSelect(name) }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements View.
func (m *PresetPickerModal) View() string {
	return Styles.BoxCompact.Render(m.list.View() + "\n" + Styles.Hint.Render(m.help))
}
