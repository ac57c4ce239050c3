// Package engine is the single writer of dashboard state. Input adapters
// speak gesture verbs into it, the UI and CLI call its operations, and it
// alone touches the layout model, the history stack, the preset store, and
// the persistence gateway. Every entry point serializes on one mutex: the
// terminal program delivers events on one goroutine, but touch long-press
// timers and saver callbacks do not.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"paneldeck/internal/history"
	"paneldeck/internal/input"
	"paneldeck/internal/layout"
	"paneldeck/internal/preset"
	"paneldeck/internal/storage"
)

// loadTimeout bounds the synchronous reads at startup.
const loadTimeout = 5 * time.Second

// Registration declares one widget and its default column. The
// registration order fixes the default arrangement that resetToDefault
// restores.
type Registration struct {
	ID     string
	Column int
}

// Notifier shows transient user-facing messages (the status bar).
type Notifier interface {
	Notify(text string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(text string)

func (f NotifierFunc) Notify(text string) { f(text) }

// Announcer feeds the assistive live region.
type Announcer interface {
	Announce(text string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(text string)

func (f AnnouncerFunc) Announce(text string) { f(text) }

// GestureTracer observes gesture lifecycles and layout operations.
type GestureTracer interface {
	GestureStarted(widgetID, source string)
	GestureEnded(widgetID, source, outcome string)
	Operation(name string, attrs map[string]string)
}

type nopTracer struct{}

func (nopTracer) GestureStarted(string, string) {}

func (nopTracer) GestureEnded(string, string, string) {}

func (nopTracer) Operation(string, map[string]string) {}

// Options configure a session engine.
type Options struct {
	Columns      int
	HistoryLimit int
	Widgets      []Registration
	Gateway      storage.Gateway
	Notifier     Notifier  // nil discards
	Announcer    Announcer // nil discards
	Tracer       GestureTracer
	Logger       *zap.Logger
}

// activeGesture is the one grab the engine allows at a time, whatever
// adapter it came from.
type activeGesture struct {
	widget  string
	source  input.Source
	preGrab layout.Snapshot
}

// Engine orchestrates all layout state for one session.
type Engine struct {
	mu sync.Mutex

	logger    *zap.Logger
	notifier  Notifier
	announcer Announcer
	tracer    GestureTracer

	regs        []Registration
	model       *layout.Model
	defaultSnap layout.Snapshot
	hist        *history.Stack
	presets     *preset.Store
	saver       *storage.Saver

	locked  bool
	gesture *activeGesture
}

// New builds the engine: the default arrangement from the registrations,
// then whatever persisted state the gateway holds layered on top. Corrupt
// or missing persisted values silently fall back to defaults.
func New(opts Options) (*Engine, error) {
	if opts.Columns < 1 {
		return nil, fmt.Errorf("engine: column count %d, need at least 1", opts.Columns)
	}
	if opts.Gateway == nil {
		return nil, fmt.Errorf("engine: nil gateway")
	}

	e := &Engine{
		logger:    opts.Logger,
		notifier:  opts.Notifier,
		announcer: opts.Announcer,
		tracer:    opts.Tracer,
		regs:      opts.Widgets,
		model:     layout.NewModel(opts.Columns),
		presets:   preset.NewStore(opts.Columns),
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.notifier == nil {
		e.notifier = NotifierFunc(func(string) {})
	}
	if e.announcer == nil {
		e.announcer = AnnouncerFunc(func(string) {})
	}
	if e.tracer == nil {
		e.tracer = nopTracer{}
	}

	for _, reg := range opts.Widgets {
		e.model.Insert(reg.ID, reg.Column)
	}
	e.defaultSnap = e.model.Capture()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if data, ok, err := opts.Gateway.LoadLayout(ctx); err != nil {
		e.logger.Warn("load layout failed, using default", zap.Error(err))
	} else if ok {
		snap, dropped := layout.SanitizeSnapshot(opts.Columns, data)
		if dropped > 0 {
			e.logger.Warn("persisted layout partially malformed",
				zap.Int("dropped", dropped))
		}
		if snap.Len() > 0 {
			e.model.Apply(snap)
			e.reconcileLocked()
		}
	}

	if data, ok, err := opts.Gateway.LoadPresets(ctx); err != nil {
		e.logger.Warn("load presets failed, starting empty", zap.Error(err))
	} else if ok {
		if _, _, err := e.presets.ImportAll(data); err != nil {
			e.logger.Warn("persisted presets unusable, starting empty", zap.Error(err))
		}
	}

	if locked, ok, err := opts.Gateway.LoadLock(ctx); err != nil {
		e.logger.Warn("load lock failed, starting unlocked", zap.Error(err))
	} else if ok {
		e.locked = locked
	}

	e.hist = history.New(e.model.Capture(), opts.HistoryLimit)
	e.saver = storage.NewSaver(opts.Gateway, e.logger, e.persistFailed)
	return e, nil
}

// Close flushes pending writes. The gateway itself stays open; its owner
// closes it.
func (e *Engine) Close() error {
	return e.saver.Close()
}

// reconcileLocked aligns the model with the registered widget set after an
// external snapshot lands: unregistered widgets leave the board, missing
// registered widgets join their default column.
func (e *Engine) reconcileLocked() {
	known := make(map[string]bool, len(e.regs))
	for _, reg := range e.regs {
		known[reg.ID] = true
	}
	for _, id := range e.model.Widgets() {
		if !known[id] {
			e.model.Remove(id)
			e.logger.Debug("dropped unregistered widget", zap.String("widget", id))
		}
	}
	for _, reg := range e.regs {
		e.model.Insert(reg.ID, reg.Column)
	}
}

// persistFailed runs on the saver goroutine when a write is rejected.
// In-memory state stays authoritative; the user just loses durability.
func (e *Engine) persistFailed(err error) {
	e.notifier.Notify("saving failed, changes may not survive a reload")
}

func (e *Engine) persistLayoutLocked() {
	data, err := e.model.Capture().MarshalJSON()
	if err != nil {
		e.logger.Error("encode layout", zap.Error(err))
		return
	}
	e.saver.QueueLayout(data)
}

func (e *Engine) persistPresetsLocked() {
	data, err := e.presets.ExportAll()
	if err != nil {
		e.logger.Error("encode presets", zap.Error(err))
		return
	}
	e.saver.QueuePresets(data)
}

// ColumnWidgets returns one column's widget IDs in visual order.
func (e *Engine) ColumnWidgets(col int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Column(col)
}

// Snapshot returns the current arrangement.
func (e *Engine) Snapshot() layout.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Capture()
}

// ActiveGesture returns the in-flight gesture, if any. The board styles the
// grabbed widget from it.
func (e *Engine) ActiveGesture() (widgetID string, source input.Source, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gesture == nil {
		return "", "", false
	}
	return e.gesture.widget, e.gesture.source, true
}

// Locked reports the lock state.
func (e *Engine) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// CanUndo reports whether an undo step exists.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo step exists.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// Placement implements input.Positioner for the keyboard adapter.
func (e *Engine) Placement(widgetID string) (column, index int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.model.Find(widgetID)
	return p.Column, p.Order, ok
}

// ColumnLen implements input.Positioner.
func (e *Engine) ColumnLen(column int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.model.Column(column))
}

// Columns implements input.Positioner.
func (e *Engine) Columns() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.model.Columns()
}
