package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paneldeck/internal/engine"
	"paneldeck/internal/feed"
	"paneldeck/internal/trace"
)

// AppOptions carries everything the root model needs: the engine, panel
// metadata, running feed tailers, and the channels that engine callbacks
// and feeds publish on.
type AppOptions struct {
	Engine   *engine.Engine
	Panels   []Panel
	Feeds    []*feed.Tailer
	Sessions *trace.Manager

	// Notices and Announcements are fed by the engine's notifier and
	// announcer callbacks. FeedEvents only triggers redraws; entries are
	// read back from the tailers. Any of the three may be nil.
	Notices       <-chan string
	Announcements <-chan string
	FeedEvents    <-chan feed.Entry
}

// AppModel is the root model: the board plus the overlay stack and the
// leader-key dispatcher above it.
type AppModel struct {
	Board      *Board
	Overlays   *OverlayStack
	KeyHandler *KeyHandler

	eng      *engine.Engine
	sessions *trace.Manager

	notices       <-chan string
	announcements <-chan string
	feedEvents    <-chan feed.Entry

	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts AppOptions) *AppModel {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("u", msgCmd(UndoMsg{}), "Undo")
	reg.BindWithDesc("r", msgCmd(RedoMsg{}), "Redo")
	reg.BindWithDesc("SPC p s", msgCmd(ShowPresetSaveMsg{}), "Save preset")
	reg.BindScoped("SPC p p", msgCmd(ShowPresetLoadMsg{}), "Load preset", ScopeUnlocked)
	reg.BindWithDesc("SPC p r", msgCmd(ShowPresetRenameMsg{}), "Rename preset")
	reg.BindWithDesc("SPC p d", msgCmd(ShowPresetDeleteMsg{}), "Delete preset")
	reg.BindWithDesc("SPC l l", msgCmd(ToggleLockMsg{}), "Toggle lock")
	reg.BindScoped("SPC l r", msgCmd(ShowResetMsg{}), "Reset layout", ScopeUnlocked)
	reg.BindWithDesc("SPC t", msgCmd(ShowSessionsMsg{}), "Sessions")

	return &AppModel{
		Board:         NewBoard(opts.Engine, opts.Panels, opts.Feeds),
		Overlays:      NewOverlayStack(),
		KeyHandler:    NewKeyHandler(reg),
		eng:           opts.Engine,
		sessions:      opts.Sessions,
		notices:       opts.Notices,
		announcements: opts.Announcements,
		feedEvents:    opts.FeedEvents,
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

func msgCmd(m tea.Msg) tea.Cmd {
	return func() tea.Msg { return m }
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		a.Board.Init(),
		a.listenNotices(),
		a.listenAnnouncements(),
		a.listenFeedEvents(),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.Board.Update(msg)
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd

	case NoticeMsg:
		a.Board.Update(msg)
		return a, a.listenNotices()
	case AnnounceMsg:
		a.Board.Update(msg)
		return a, a.listenAnnouncements()
	case FeedEntryMsg:
		// Entries already live in the tailer's ring; the message only
		// schedules a redraw.
		return a, a.listenFeedEvents()

	case ShowPresetSaveMsg:
		return a, a.push(NewPresetSaveModal())
	case ShowPresetLoadMsg:
		names := a.eng.PresetNames()
		if len(names) == 0 {
			a.Board.notice = "no presets saved"
			return a, nil
		}
		return a, a.push(NewPresetLoadModal(names))
	case ShowPresetRenameMsg:
		names := a.eng.PresetNames()
		if len(names) == 0 {
			a.Board.notice = "no presets saved"
			return a, nil
		}
		return a, a.push(NewPresetRenamePickerModal(names))
	case ShowPresetDeleteMsg:
		names := a.eng.PresetNames()
		if len(names) == 0 {
			a.Board.notice = "no presets saved"
			return a, nil
		}
		return a, a.push(NewPresetDeleteModal(names))
	case ShowResetMsg:
		return a, a.push(NewResetLayoutConfirmModal())
	case ShowSessionsMsg:
		if a.sessions == nil {
			a.Board.notice = "session tracing disabled"
			return a, nil
		}
		return a, a.push(NewSessionsView(a.sessions.RecentSessions()))

	case SavePresetMsg:
		a.eng.SavePreset(msg.Name)
		a.Overlays.Clear()
		return a, nil
	case LoadPresetMsg:
		a.eng.LoadPreset(msg.Name)
		a.Overlays.Clear()
		return a, nil
	case RenamePresetTargetMsg:
		return a, a.push(NewPresetRenameModal(msg.Name))
	case RenamePresetMsg:
		a.eng.RenamePreset(msg.Old, msg.New)
		a.Overlays.Clear()
		return a, nil
	case DeletePresetTargetMsg:
		return a, a.push(NewDeletePresetConfirmModal(msg.Name))
	case DeletePresetMsg:
		a.eng.DeletePreset(msg.Name)
		a.Overlays.Clear()
		return a, nil

	case ToggleLockMsg:
		a.eng.ToggleLock()
		return a, nil
	case ResetLayoutMsg:
		a.eng.ResetToDefault()
		a.Overlays.Clear()
		return a, nil
	case UndoMsg:
		a.eng.Undo()
		return a, nil
	case RedoMsg:
		a.eng.Redo()
		return a, nil

	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil

	case tea.KeyMsg:
		// An open modal owns the keyboard; leader sequences resume after
		// it closes.
		if a.Overlays.Len() > 0 {
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, cmd
		}
		if consumed, keyCmd := a.KeyHandler.Handle(msg); consumed {
			return a, keyCmd
		}
		a.Board.Update(msg)
		return a, nil

	case tea.MouseMsg:
		if a.Overlays.Len() > 0 {
			return a, nil
		}
		a.Board.Update(msg)
		return a, nil
	}

	// Everything else (cursor blinks, list ticks) goes to the top overlay
	// when one is open, else to the board.
	if a.Overlays.Len() > 0 {
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	_, cmd := a.Board.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	w, h := a.width, a.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	if top := a.Overlays.Top(); top != nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, top.View())
	}
	if a.KeyHandler.LeaderWaiting {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Bottom,
			RenderKeybindHelp(a.KeyHandler, a.eng.Locked()))
	}
	return a.Board.View()
}

// push opens an overlay and sizes it to the current window.
func (a *AppModel) push(v View) tea.Cmd {
	a.Overlays.Push(v)
	cmds := []tea.Cmd{v.Init()}
	if a.width > 0 {
		if cmd, ok := a.Overlays.UpdateTop(tea.WindowSizeMsg{Width: a.width, Height: a.height}); ok {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// listenNotices waits for the next engine notice. Each delivered message
// re-arms the listener from Update.
func (a *AppModel) listenNotices() tea.Cmd {
	if a.notices == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-a.notices
		if !ok {
			return nil
		}
		return NoticeMsg(s)
	}
}

func (a *AppModel) listenAnnouncements() tea.Cmd {
	if a.announcements == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-a.announcements
		if !ok {
			return nil
		}
		return AnnounceMsg(s)
	}
}

func (a *AppModel) listenFeedEvents() tea.Cmd {
	if a.feedEvents == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-a.feedEvents
		if !ok {
			return nil
		}
		return FeedEntryMsg{Entry: e}
	}
}
