// Package feed tails status files written as JSON lines and surfaces
// their latest entries to dashboard panels. A Tailer follows one file:
// it catches up on existing content, then picks up appends, truncation,
// and log rotation through a directory watch.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paneldeck/internal/jsonutil"
)

// DefaultLimit is how many entries a Tailer retains when Options.Limit
// is not set.
const DefaultLimit = 50

// Entry is one parsed line from a status file. Lines that are not JSON
// objects are kept verbatim in Message so plain-text logs still show up.
type Entry struct {
	Message   string
	Level     string
	Value     float64
	HasValue  bool
	Timestamp time.Time
}

// Options configures a Tailer.
type Options struct {
	// Name identifies the feed in logs and panel routing.
	Name string
	// Path is the JSONL file to follow. The file does not have to exist
	// yet; its directory does.
	Path string
	// Field optionally names a numeric field to extract into Entry.Value.
	Field string
	// Limit caps retained entries. Defaults to DefaultLimit.
	Limit int
	// Events receives each new entry. Sends never block; when the
	// channel is full the entry is dropped and remains available
	// through Recent.
	Events chan<- Entry
	Logger *zap.Logger
}

// Tailer follows one status file. Start launches the watcher and reader
// goroutines; Stop tears them down.
type Tailer struct {
	name   string
	path   string
	base   string
	field  string
	limit  int
	events chan<- Entry
	logger *zap.Logger

	watcher *fsnotify.Watcher
	wake    chan struct{}
	cancel  context.CancelFunc
	eg      *errgroup.Group

	// offset, partial, and last are owned by the reader goroutine.
	offset  int64
	partial []byte
	last    os.FileInfo

	mu     sync.Mutex
	recent []Entry
}

// New validates opts and returns a Tailer. Call Start to begin following
// the file.
func New(opts Options) (*Tailer, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("feed needs a name")
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("feed %s: needs a path", opts.Name)
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", opts.Name, err)
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tailer{
		name:   opts.Name,
		path:   path,
		base:   filepath.Base(path),
		field:  opts.Field,
		limit:  limit,
		events: opts.Events,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}, nil
}

// Name reports the feed name panels route on.
func (t *Tailer) Name() string { return t.name }

// Start begins watching the file's directory and reading new content.
// It fails when the directory cannot be watched.
func (t *Tailer) Start(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("feed %s: %w", t.name, err)
	}
	dir := filepath.Dir(t.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("feed %s: watch %s: %w", t.name, dir, err)
	}
	t.watcher = w

	ctx, t.cancel = context.WithCancel(ctx)
	t.eg, ctx = errgroup.WithContext(ctx)
	t.eg.Go(func() error { return t.watch(ctx) })
	t.eg.Go(func() error { return t.read(ctx) })
	t.logger.Debug("feed started",
		zap.String("feed", t.name),
		zap.String("path", t.path))
	return nil
}

// Stop halts the goroutines and closes the watcher. Safe to call when
// Start was never called or already failed.
func (t *Tailer) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	if t.eg != nil {
		_ = t.eg.Wait()
	}
	if t.watcher != nil {
		_ = t.watcher.Close()
	}
}

// Recent returns a copy of the retained entries, oldest first.
func (t *Tailer) Recent() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.recent))
	copy(out, t.recent)
	return out
}

// Values returns the numeric samples among the retained entries, oldest
// first. Empty unless Options.Field matched lines.
func (t *Tailer) Values() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]float64, 0, len(t.recent))
	for _, e := range t.recent {
		if e.HasValue {
			out = append(out, e.Value)
		}
	}
	return out
}

// watch forwards events for our file to the reader as wake signals.
// Everything the reader needs it re-derives from the file itself, so
// coalesced or dropped signals lose nothing.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != t.base {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			t.poke()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn("feed watch error",
				zap.String("feed", t.name), zap.Error(err))
		}
	}
}

func (t *Tailer) poke() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// read drains wake signals and pulls new content from the file. The
// initial pass catches up on whatever the file already holds.
func (t *Tailer) read(ctx context.Context) error {
	t.readNew()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.wake:
			t.readNew()
		}
	}
}

// readNew reads from the current offset to end of file. A missing file,
// a replaced one, or one shorter than the offset resets the tailer to
// the beginning.
func (t *Tailer) readNew() {
	f, err := os.Open(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.logger.Warn("feed open failed",
				zap.String("feed", t.name), zap.Error(err))
		}
		t.offset = 0
		t.partial = nil
		t.last = nil
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return
	}
	if t.last != nil && !os.SameFile(t.last, info) {
		t.offset = 0
		t.partial = nil
	}
	t.last = info
	if info.Size() < t.offset {
		t.offset = 0
		t.partial = nil
	}
	if info.Size() == t.offset {
		return
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.logger.Warn("feed read failed",
			zap.String("feed", t.name), zap.Error(err))
		return
	}
	t.offset += int64(len(data))
	t.ingest(data)
}

// ingest splits buffered bytes into lines, holding back a trailing
// partial line until its newline arrives.
func (t *Tailer) ingest(data []byte) {
	buf := append(t.partial, data...)
	var entries []Entry
	for {
		nl := bytes.IndexByte(buf, '\n')
		if nl < 0 {
			break
		}
		line := strings.TrimSpace(string(buf[:nl]))
		buf = buf[nl+1:]
		if line == "" {
			continue
		}
		entries = append(entries, t.parseLine(line))
	}
	if len(buf) > 0 {
		t.partial = append([]byte(nil), buf...)
	} else {
		t.partial = nil
	}
	if len(entries) == 0 {
		return
	}

	t.mu.Lock()
	t.recent = append(t.recent, entries...)
	if n := len(t.recent) - t.limit; n > 0 {
		t.recent = append(t.recent[:0], t.recent[n:]...)
	}
	t.mu.Unlock()

	for _, e := range entries {
		t.emit(e)
	}
	t.logger.Debug("feed entries",
		zap.String("feed", t.name), zap.Int("count", len(entries)))
}

func (t *Tailer) parseLine(line string) Entry {
	var m map[string]interface{}
	if !jsonutil.UnmarshalLineSafe(line, &m) {
		return Entry{Message: line, Timestamp: time.Now()}
	}
	e := Entry{
		Message:   jsonutil.GetStringOr(m, "msg", jsonutil.GetString(m, "message")),
		Level:     jsonutil.GetStringOr(m, "level", "info"),
		Timestamp: lineTimestamp(m),
	}
	if t.field != "" {
		if v, ok := jsonutil.GetFloat(m, t.field); ok {
			e.Value = v
			e.HasValue = true
		}
	}
	return e
}

// lineTimestamp reads the stamp formats our own logs and common status
// writers produce: epoch seconds in "ts", RFC 3339 in "time".
func lineTimestamp(m map[string]interface{}) time.Time {
	if ts, ok := jsonutil.GetFloat(m, "ts"); ok {
		sec, frac := math.Modf(ts)
		return time.Unix(int64(sec), int64(frac*float64(time.Second)))
	}
	if raw := jsonutil.GetString(m, "time"); raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			return at
		}
	}
	return time.Now()
}

// emit sends the entry to the channel (non-blocking; drops if full).
func (t *Tailer) emit(e Entry) {
	if t.events == nil {
		return
	}
	select {
	case t.events <- e:
	default:
	}
}
