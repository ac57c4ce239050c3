package engine

import (
	"fmt"
	"strconv"

	"paneldeck/internal/preset"
)

// mutableLocked reports whether the arrangement may change right now,
// notifying the user when it may not. Callers hold e.mu.
func (e *Engine) mutableLocked() bool {
	if e.locked {
		e.notifier.Notify("layout is locked")
		return false
	}
	if e.gesture != nil {
		e.notifier.Notify("finish the current move first")
		return false
	}
	return true
}

// settledLocked is the weaker guard for operations that touch presets but
// not the arrangement itself. They work on a locked board, just not while
// a widget is mid-move. Callers hold e.mu.
func (e *Engine) settledLocked() bool {
	if e.gesture != nil {
		e.notifier.Notify("finish the current move first")
		return true
	}
	return false
}

// Undo steps the arrangement back to the previous committed state.
func (e *Engine) Undo() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mutableLocked() {
		return
	}
	snap, ok := e.hist.Undo()
	if !ok {
		e.notifier.Notify("nothing to undo")
		return
	}
	e.model.Apply(snap)
	e.persistLayoutLocked()
	e.tracer.Operation("undo", nil)
	e.notifier.Notify("undid layout change")
}

// Redo reapplies the most recently undone change.
func (e *Engine) Redo() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mutableLocked() {
		return
	}
	snap, ok := e.hist.Redo()
	if !ok {
		e.notifier.Notify("nothing to redo")
		return
	}
	e.model.Apply(snap)
	e.persistLayoutLocked()
	e.tracer.Operation("redo", nil)
	e.notifier.Notify("redid layout change")
}

// ResetToDefault restores the arrangement the engine was constructed with.
// The reset enters history like any other change, so it can be undone.
func (e *Engine) ResetToDefault() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mutableLocked() {
		return
	}
	if e.model.Capture().Equal(e.defaultSnap) {
		e.notifier.Notify("layout already at default")
		return
	}
	e.model.Apply(e.defaultSnap)
	e.hist.Record(e.model.Capture())
	e.persistLayoutLocked()
	e.tracer.Operation("reset", nil)
	e.notifier.Notify("layout reset to default")
}

// Lock freezes the arrangement.
func (e *Engine) Lock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLockedLocked(true)
}

// Unlock makes the arrangement editable again.
func (e *Engine) Unlock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLockedLocked(false)
}

// ToggleLock flips between locked and editable.
func (e *Engine) ToggleLock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setLockedLocked(!e.locked)
}

// setLockedLocked flips the lock and persists it. Engaging the lock cancels
// any gesture in flight so a half-applied move never freezes in place.
func (e *Engine) setLockedLocked(locked bool) {
	e.locked = locked
	if locked {
		e.abortGestureLocked()
	}
	e.saver.QueueLock(locked)
	e.tracer.Operation("lock", map[string]string{"locked": strconv.FormatBool(locked)})
	if locked {
		e.notifier.Notify("layout locked")
	} else {
		e.notifier.Notify("layout unlocked")
	}
}

// SavePreset captures the current arrangement under name and makes it the
// active preset. Saving during a drag is refused so a tentative position
// never becomes a preset.
func (e *Engine) SavePreset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settledLocked() {
		return
	}
	stored, err := e.presets.Save(name, e.model.Capture())
	if err != nil {
		e.notifier.Notify(err.Error())
		return
	}
	e.persistPresetsLocked()
	e.tracer.Operation("preset.save", map[string]string{"name": stored})
	e.notifier.Notify(fmt.Sprintf("preset %q saved", stored))
}

// LoadPreset applies a saved arrangement. Widgets added since the preset
// was saved keep their place; widgets it references that no longer exist
// are dropped. The load enters history, so it can be undone.
func (e *Engine) LoadPreset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mutableLocked() {
		return
	}
	snap, err := e.presets.Load(name)
	if err != nil {
		e.notifier.Notify(err.Error())
		return
	}
	stored, _ := e.presets.Active()
	e.persistPresetsLocked()
	e.model.Apply(snap)
	e.reconcileLocked()
	if e.hist.Record(e.model.Capture()) {
		e.persistLayoutLocked()
	}
	e.tracer.Operation("preset.load", map[string]string{"name": stored})
	e.notifier.Notify(fmt.Sprintf("preset %q loaded", stored))
}

// DeletePreset removes a saved arrangement. The current layout is untouched
// even when the deleted preset was active.
func (e *Engine) DeletePreset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settledLocked() {
		return
	}
	stored, err := preset.SanitizeName(name)
	if err != nil {
		e.notifier.Notify(err.Error())
		return
	}
	if err := e.presets.Delete(stored); err != nil {
		e.notifier.Notify(err.Error())
		return
	}
	e.persistPresetsLocked()
	e.tracer.Operation("preset.delete", map[string]string{"name": stored})
	e.notifier.Notify(fmt.Sprintf("preset %q deleted", stored))
}

// RenamePreset gives a saved arrangement a new name.
func (e *Engine) RenamePreset(oldName, newName string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settledLocked() {
		return
	}
	stored, err := e.presets.Rename(oldName, newName)
	if err != nil {
		e.notifier.Notify(err.Error())
		return
	}
	e.persistPresetsLocked()
	e.tracer.Operation("preset.rename", map[string]string{"name": stored})
	e.notifier.Notify(fmt.Sprintf("preset renamed to %q", stored))
}

// ExportPresets renders every preset and the active pointer as a JSON
// document suitable for ImportPresets.
func (e *Engine) ExportPresets() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, err := e.presets.ExportAll()
	if err != nil {
		return nil, err
	}
	e.tracer.Operation("preset.export", map[string]string{
		"count": strconv.Itoa(len(e.presets.Names())),
	})
	return data, nil
}

// ImportPresets merges a previously exported document into the store.
// Mangled entries are rejected individually; the rest import fine.
func (e *Engine) ImportPresets(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.settledLocked() {
		return
	}
	accepted, rejected, err := e.presets.ImportAll(data)
	if err != nil {
		e.notifier.Notify("import failed: " + err.Error())
		return
	}
	e.persistPresetsLocked()
	e.tracer.Operation("preset.import", map[string]string{
		"accepted": strconv.Itoa(accepted),
		"rejected": strconv.Itoa(rejected),
	})
	if rejected > 0 {
		e.notifier.Notify(fmt.Sprintf("imported %d presets, rejected %d", accepted, rejected))
	} else {
		e.notifier.Notify(fmt.Sprintf("imported %d presets", accepted))
	}
}

// PresetNames lists saved presets in sorted order.
func (e *Engine) PresetNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presets.Names()
}

// ActivePreset names the most recently saved or loaded preset, if any.
func (e *Engine) ActivePreset() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presets.Active()
}
