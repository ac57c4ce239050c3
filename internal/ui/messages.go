package ui

import "paneldeck/internal/feed"

// NoticeMsg carries a status-bar notice from the arrangement engine.
type NoticeMsg string

// AnnounceMsg carries an assistive announcement for the live region.
type AnnounceMsg string

// FeedEntryMsg is sent when a feed tailer picks up a new entry. The board
// re-reads the tailer's window, so the entry itself is informational.
type FeedEntryMsg struct {
	Entry feed.Entry
}

// ShowPresetSaveMsg opens the save-preset prompt (SPC p s).
type ShowPresetSaveMsg struct{}

// ShowPresetLoadMsg opens the preset picker for loading (SPC p p).
type ShowPresetLoadMsg struct{}

// ShowPresetRenameMsg opens the preset picker for renaming (SPC p r).
type ShowPresetRenameMsg struct{}

// ShowPresetDeleteMsg opens the preset picker for deletion (SPC p d).
type ShowPresetDeleteMsg struct{}

// ShowResetMsg opens the reset-layout confirmation (SPC l r).
type ShowResetMsg struct{}

// ShowSessionsMsg opens the gesture-timings overlay (SPC t).
type ShowSessionsMsg struct{}

// SavePresetMsg is sent when the user submits a name in the save prompt.
type SavePresetMsg struct {
	Name string
}

// LoadPresetMsg is sent when the user picks a preset to load.
type LoadPresetMsg struct {
	Name string
}

// RenamePresetTargetMsg is sent when the user picks which preset to rename;
// it opens the rename prompt prefilled with the old name.
type RenamePresetTargetMsg struct {
	Name string
}

// RenamePresetMsg is sent when the user submits the new name.
type RenamePresetMsg struct {
	Old string
	New string
}

// DeletePresetTargetMsg is sent when the user picks which preset to delete;
// it opens the confirmation on top of the picker.
type DeletePresetTargetMsg struct {
	Name string
}

// DeletePresetMsg is sent when the user confirms a preset deletion.
type DeletePresetMsg struct {
	Name string
}

// ToggleLockMsg toggles the layout lock (SPC l l).
type ToggleLockMsg struct{}

// ResetLayoutMsg is sent when the user confirms resetting to the default
// arrangement.
type ResetLayoutMsg struct{}

// UndoMsg reverts the most recent layout change (u).
type UndoMsg struct{}

// RedoMsg re-applies an undone layout change (r).
type RedoMsg struct{}

// DismissModalMsg is sent when the user cancels a modal (Esc).
type DismissModalMsg struct{}
