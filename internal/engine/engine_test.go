package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"paneldeck/internal/input"
	"paneldeck/internal/layout"
	"paneldeck/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects notices and announcements. The saver goroutine reports
// persistence errors through the notifier, so access is mutex-guarded.
type recorder struct {
	mu        sync.Mutex
	notices   []string
	announced []string
}

func (r *recorder) Notify(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
}

func (r *recorder) Announce(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announced = append(r.announced, text)
}

func (r *recorder) noticeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func (r *recorder) hasNotice(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notices {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

func (r *recorder) hasAnnouncement(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.announced {
		if strings.Contains(a, substr) {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// newTestEngine builds a three-column engine over an in-memory gateway:
// column 0 holds alpha, beta, gamma and column 1 holds delta.
func newTestEngine(t *testing.T) (*Engine, *recorder, *storage.Memory) {
	t.Helper()
	gw := storage.NewMemory()
	rec := &recorder{}
	e, err := New(Options{
		Columns: 3,
		Widgets: []Registration{
			{ID: "alpha", Column: 0},
			{ID: "beta", Column: 0},
			{ID: "gamma", Column: 0},
			{ID: "delta", Column: 1},
		},
		Gateway:   gw,
		Notifier:  rec,
		Announcer: rec,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, rec, gw
}

func checkColumns(t *testing.T, e *Engine, want [][]string) {
	t.Helper()
	got := make([][]string, e.Columns())
	for col := range got {
		got[col] = e.ColumnWidgets(col)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestGestureCommitUndoRedo(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	if !e.BeginGesture("beta", input.SourceKeyboard) {
		t.Fatal("BeginGesture(beta): refused")
	}
	e.UpdateTarget("beta", 0, 0)
	checkColumns(t, e, [][]string{{"beta", "alpha", "gamma"}, {"delta"}, {}})
	e.CommitGesture("beta")

	if !e.CanUndo() {
		t.Fatal("CanUndo after commit: expected true")
	}
	if !rec.hasNotice("layout updated") {
		t.Errorf("commit: expected %q notice, got %v", "layout updated", rec.notices)
	}

	e.Undo()
	checkColumns(t, e, [][]string{{"alpha", "beta", "gamma"}, {"delta"}, {}})
	if !e.CanRedo() {
		t.Fatal("CanRedo after undo: expected true")
	}

	e.Redo()
	checkColumns(t, e, [][]string{{"beta", "alpha", "gamma"}, {"delta"}, {}})
	if e.CanRedo() {
		t.Error("CanRedo after redo: expected false")
	}
}

func TestKeyboardGestureAnnouncements(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.BeginGesture("beta", input.SourceKeyboard)
	if !rec.hasAnnouncement("Arrow keys") {
		t.Errorf("keyboard grab: expected usage hint, got %v", rec.announced)
	}
	e.UpdateTarget("beta", 1, 0)
	if !rec.hasAnnouncement("beta moved to column 2, position 1") {
		t.Errorf("keyboard move: expected position announcement, got %v", rec.announced)
	}
	e.CommitGesture("beta")
	if !rec.hasAnnouncement("beta dropped at column 2, position 1") {
		t.Errorf("commit: expected drop announcement, got %v", rec.announced)
	}
}

func TestPointerMovesAnnounceNothing(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.BeginGesture("beta", input.SourcePointer)
	before := len(rec.announced)
	e.UpdateTarget("beta", 1, 0)
	e.UpdateTarget("beta", 2, 0)
	if got := len(rec.announced); got != before {
		t.Errorf("pointer moves: expected no announcements, got %v", rec.announced[before:])
	}
	e.CommitGesture("beta")
}

func TestCancelRestoresExactly(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	before := e.Snapshot()

	e.BeginGesture("beta", input.SourcePointer)
	e.UpdateTarget("beta", 1, 0)
	e.UpdateTarget("beta", 2, 1)
	e.CancelGesture("beta")

	if diff := cmp.Diff(before.Placements(), e.Snapshot().Placements()); diff != "" {
		t.Errorf("cancel: arrangement changed (-want +got):\n%s", diff)
	}
	if e.CanUndo() {
		t.Error("cancel: expected no history entry")
	}
	if !rec.hasAnnouncement("returned to its original position") {
		t.Errorf("cancel: expected restore announcement, got %v", rec.announced)
	}
}

func TestCommitWithoutChangeBooksNothing(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.BeginGesture("beta", input.SourcePointer)
	e.UpdateTarget("beta", 0, 1)
	e.CommitGesture("beta")

	if e.CanUndo() {
		t.Error("unchanged commit: expected no history entry")
	}
	if rec.hasNotice("layout updated") {
		t.Error("unchanged commit: expected no update notice")
	}
	if !rec.hasAnnouncement("dropped in place") {
		t.Errorf("unchanged commit: expected in-place announcement, got %v", rec.announced)
	}
}

func TestSecondGestureRefusedSilently(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	if !e.BeginGesture("alpha", input.SourcePointer) {
		t.Fatal("first BeginGesture: refused")
	}
	before := rec.noticeCount()
	if e.BeginGesture("beta", input.SourceTouch) {
		t.Error("second BeginGesture: expected refusal")
	}
	if got := rec.noticeCount(); got != before {
		t.Errorf("second BeginGesture: expected no notice, got %v", rec.notices[before:])
	}
	if id, _, ok := e.ActiveGesture(); !ok || id != "alpha" {
		t.Errorf("ActiveGesture: expected alpha, got %q ok=%v", id, ok)
	}
	e.CancelGesture("alpha")
}

func TestUnknownWidgetRefused(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if e.BeginGesture("ghost", input.SourcePointer) {
		t.Error("BeginGesture(ghost): expected refusal")
	}
}

func TestStaleVerbsIgnored(t *testing.T) {
	e, _, _ := newTestEngine(t)
	before := e.Snapshot()

	// No gesture in flight: every verb is stale.
	e.UpdateTarget("beta", 2, 0)
	e.CommitGesture("beta")
	e.CancelGesture("beta")

	// Verbs for a widget other than the grabbed one are stale too.
	e.BeginGesture("alpha", input.SourcePointer)
	e.UpdateTarget("beta", 2, 0)
	e.CommitGesture("beta")
	e.CancelGesture("alpha")

	if diff := cmp.Diff(before.Placements(), e.Snapshot().Placements()); diff != "" {
		t.Errorf("stale verbs: arrangement changed (-want +got):\n%s", diff)
	}
	if e.CanUndo() {
		t.Error("stale verbs: expected no history entry")
	}
}

func TestLockBlocksGesture(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.Lock()
	if e.BeginGesture("alpha", input.SourcePointer) {
		t.Error("BeginGesture while locked: expected refusal")
	}
	if !rec.hasNotice("layout is locked") {
		t.Errorf("locked grab: expected notice, got %v", rec.notices)
	}

	e.Unlock()
	if !e.BeginGesture("alpha", input.SourcePointer) {
		t.Error("BeginGesture after unlock: expected success")
	}
	e.CancelGesture("alpha")
}

func TestLockCancelsActiveGesture(t *testing.T) {
	e, _, _ := newTestEngine(t)
	before := e.Snapshot()

	e.BeginGesture("beta", input.SourcePointer)
	e.UpdateTarget("beta", 2, 0)
	e.Lock()

	if _, _, ok := e.ActiveGesture(); ok {
		t.Error("Lock: expected active gesture cancelled")
	}
	if diff := cmp.Diff(before.Placements(), e.Snapshot().Placements()); diff != "" {
		t.Errorf("Lock mid-drag: arrangement changed (-want +got):\n%s", diff)
	}

	// The adapter has not heard about the cancellation; its release is stale.
	e.CommitGesture("beta")
	if diff := cmp.Diff(before.Placements(), e.Snapshot().Placements()); diff != "" {
		t.Errorf("stale commit after lock (-want +got):\n%s", diff)
	}
}

func TestToggleLockPersists(t *testing.T) {
	e, _, gw := newTestEngine(t)

	e.ToggleLock()
	if !e.Locked() {
		t.Fatal("ToggleLock: expected locked")
	}
	waitFor(t, func() bool {
		locked, ok, _ := gw.LoadLock(context.Background())
		return ok && locked
	}, "lock to persist")

	e.ToggleLock()
	if e.Locked() {
		t.Fatal("second ToggleLock: expected unlocked")
	}
}

func TestUndoRedoNotices(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.Undo()
	if !rec.hasNotice("nothing to undo") {
		t.Errorf("empty undo: expected notice, got %v", rec.notices)
	}
	e.Redo()
	if !rec.hasNotice("nothing to redo") {
		t.Errorf("empty redo: expected notice, got %v", rec.notices)
	}
}

func TestMutationsGuardedDuringGesture(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.BeginGesture("beta", input.SourcePointer)
	e.UpdateTarget("beta", 2, 0)

	e.Undo()
	e.ResetToDefault()
	e.SavePreset("mid-drag")
	if !rec.hasNotice("finish the current move first") {
		t.Errorf("mutation mid-gesture: expected guard notice, got %v", rec.notices)
	}
	if len(e.PresetNames()) != 0 {
		t.Errorf("SavePreset mid-gesture: expected refusal, got %v", e.PresetNames())
	}

	// The drag itself is unaffected.
	if id, _, ok := e.ActiveGesture(); !ok || id != "beta" {
		t.Errorf("ActiveGesture: expected beta, got %q ok=%v", id, ok)
	}
	e.CancelGesture("beta")
}

func TestResetToDefault(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.BeginGesture("gamma", input.SourcePointer)
	e.UpdateTarget("gamma", 2, 0)
	e.CommitGesture("gamma")
	checkColumns(t, e, [][]string{{"alpha", "beta"}, {"delta"}, {"gamma"}})

	e.ResetToDefault()
	checkColumns(t, e, [][]string{{"alpha", "beta", "gamma"}, {"delta"}, {}})
	if !rec.hasNotice("layout reset to default") {
		t.Errorf("reset: expected notice, got %v", rec.notices)
	}

	// The reset is one more history entry, so it can be undone.
	e.Undo()
	checkColumns(t, e, [][]string{{"alpha", "beta"}, {"delta"}, {"gamma"}})

	e.Redo()
	e.ResetToDefault()
	if !rec.hasNotice("layout already at default") {
		t.Errorf("repeat reset: expected no-op notice, got %v", rec.notices)
	}
}

func TestPresetSaveLoad(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.SavePreset("morning review")
	if name, ok := e.ActivePreset(); !ok || name != "morning review" {
		t.Errorf("ActivePreset: expected %q, got %q ok=%v", "morning review", name, ok)
	}

	e.BeginGesture("beta", input.SourcePointer)
	e.UpdateTarget("beta", 2, 0)
	e.CommitGesture("beta")
	checkColumns(t, e, [][]string{{"alpha", "gamma"}, {"delta"}, {"beta"}})

	e.LoadPreset("morning review")
	checkColumns(t, e, [][]string{{"alpha", "beta", "gamma"}, {"delta"}, {}})
	if !rec.hasNotice(`preset "morning review" loaded`) {
		t.Errorf("load: expected notice, got %v", rec.notices)
	}

	// Loading a preset is undoable like any other change.
	e.Undo()
	checkColumns(t, e, [][]string{{"alpha", "gamma"}, {"delta"}, {"beta"}})
}

func TestLoadPresetUnknownSuggestsClosest(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	before := e.Snapshot()

	e.SavePreset("standup")
	e.LoadPreset("standip")

	if !rec.hasNotice(`closest match: "standup"`) {
		t.Errorf("misspelled load: expected suggestion, got %v", rec.notices)
	}
	if diff := cmp.Diff(before.Placements(), e.Snapshot().Placements()); diff != "" {
		t.Errorf("failed load: arrangement changed (-want +got):\n%s", diff)
	}
}

func TestPresetOpsAllowedWhileLocked(t *testing.T) {
	e, rec, _ := newTestEngine(t)

	e.Lock()
	e.SavePreset("frozen")
	if len(e.PresetNames()) != 1 {
		t.Fatalf("SavePreset while locked: expected success, got %v", e.PresetNames())
	}
	e.RenamePreset("frozen", "cold")
	if !rec.hasNotice(`preset renamed to "cold"`) {
		t.Errorf("rename while locked: expected success, got %v", rec.notices)
	}

	e.LoadPreset("cold")
	if !rec.hasNotice("layout is locked") {
		t.Errorf("load while locked: expected refusal, got %v", rec.notices)
	}

	e.DeletePreset("cold")
	if len(e.PresetNames()) != 0 {
		t.Errorf("DeletePreset while locked: expected success, got %v", e.PresetNames())
	}
}

func TestExportImportAcrossEngines(t *testing.T) {
	e1, _, _ := newTestEngine(t)
	e1.SavePreset("travel")
	data, err := e1.ExportPresets()
	if err != nil {
		t.Fatalf("ExportPresets: %v", err)
	}

	e2, rec, _ := newTestEngine(t)
	e2.ImportPresets(data)
	if !rec.hasNotice("imported 1 presets") {
		t.Errorf("import: expected count notice, got %v", rec.notices)
	}
	if diff := cmp.Diff([]string{"travel"}, e2.PresetNames()); diff != "" {
		t.Errorf("imported names (-want +got):\n%s", diff)
	}
}

func TestImportUnusableDocument(t *testing.T) {
	e, rec, _ := newTestEngine(t)
	e.ImportPresets([]byte("{ not json"))
	if !rec.hasNotice("import failed") {
		t.Errorf("bad import: expected failure notice, got %v", rec.notices)
	}
}

func TestStartupReconcilesPersistedLayout(t *testing.T) {
	gw := storage.NewMemory()
	seed := layout.NewModel(3)
	seed.Insert("ghost", 0)
	seed.Insert("alpha", 2)
	data, err := seed.Capture().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if err := gw.SaveLayout(context.Background(), data); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	e, err := New(Options{
		Columns: 3,
		Widgets: []Registration{
			{ID: "alpha", Column: 0},
			{ID: "beta", Column: 1},
		},
		Gateway: gw,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	// ghost is gone, alpha keeps its persisted spot, beta lands on its
	// default column.
	checkColumns(t, e, [][]string{{}, {"beta"}, {"alpha"}})
}

func TestStartupToleratesCorruptLayout(t *testing.T) {
	gw := storage.NewMemory()
	if err := gw.SaveLayout(context.Background(), []byte("{ not json")); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	e, err := New(Options{
		Columns: 2,
		Widgets: []Registration{{ID: "alpha", Column: 0}},
		Gateway: gw,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	checkColumns(t, e, [][]string{{"alpha"}, {}})
}

func TestLayoutSurvivesRestart(t *testing.T) {
	gw := storage.NewMemory()
	widgets := []Registration{
		{ID: "alpha", Column: 0},
		{ID: "beta", Column: 0},
	}

	e1, err := New(Options{Columns: 2, Widgets: widgets, Gateway: gw})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e1.BeginGesture("alpha", input.SourcePointer)
	e1.UpdateTarget("alpha", 1, 0)
	e1.CommitGesture("alpha")
	e1.Lock()
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e2, err := New(Options{Columns: 2, Widgets: widgets, Gateway: gw})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e2.Close()

	checkColumns(t, e2, [][]string{{"beta"}, {"alpha"}})
	if !e2.Locked() {
		t.Error("restart: expected lock to survive")
	}
}

func TestPresetLoadReconcilesRetiredWidgets(t *testing.T) {
	gw := storage.NewMemory()

	e1, err := New(Options{
		Columns: 3,
		Widgets: []Registration{{ID: "alpha", Column: 0}, {ID: "beta", Column: 1}},
		Gateway: gw,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e1.BeginGesture("alpha", input.SourcePointer)
	e1.UpdateTarget("alpha", 2, 0)
	e1.CommitGesture("alpha")
	e1.SavePreset("old guard")
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// beta has been retired and gamma shipped since the preset was saved.
	e2, err := New(Options{
		Columns: 3,
		Widgets: []Registration{{ID: "alpha", Column: 0}, {ID: "gamma", Column: 2}},
		Gateway: gw,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e2.Close()

	e2.BeginGesture("gamma", input.SourcePointer)
	e2.UpdateTarget("gamma", 0, 0)
	e2.CommitGesture("gamma")
	checkColumns(t, e2, [][]string{{"gamma"}, {}, {"alpha"}})

	e2.LoadPreset("old guard")
	checkColumns(t, e2, [][]string{{}, {}, {"alpha", "gamma"}})

	e2.Undo()
	checkColumns(t, e2, [][]string{{"gamma"}, {}, {"alpha"}})
}

// failingGateway accepts loads but refuses every write.
type failingGateway struct {
	*storage.Memory
}

func (f *failingGateway) SaveLayout(ctx context.Context, data []byte) error {
	return errors.New("disk full")
}

func TestPersistenceFailureNotifies(t *testing.T) {
	rec := &recorder{}
	e, err := New(Options{
		Columns:  2,
		Widgets:  []Registration{{ID: "alpha", Column: 0}, {ID: "beta", Column: 0}},
		Gateway:  &failingGateway{Memory: storage.NewMemory()},
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	e.BeginGesture("alpha", input.SourcePointer)
	e.UpdateTarget("alpha", 1, 0)
	e.CommitGesture("alpha")

	waitFor(t, func() bool { return rec.hasNotice("saving failed") }, "failure notice")
}
