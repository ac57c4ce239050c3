// Command deckreplay feeds a recorded input trace through the live gesture
// adapters against the persisted layout. Terminals never deliver touch
// events, so this is also the reference driver for the touch adapter: a
// trace can arm a long press and fire it with an explicit clock event,
// which makes gesture bugs reproducible from a file.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paneldeck/internal/config"
	"paneldeck/internal/engine"
	"paneldeck/internal/input"
	"paneldeck/internal/storage"
	"paneldeck/internal/trace"
	"paneldeck/internal/ui"
)

// cliConfig holds the parsed CLI configuration for a replay run.
type cliConfig struct {
	width  int
	height int
	save   bool
	file   string
}

func parseFlags() cliConfig {
	var cfg cliConfig

	flag.IntVar(&cfg.width, "width", 80, "surface width in cells used for hit-testing")
	flag.IntVar(&cfg.height, "height", 24, "surface height in cells used for hit-testing")
	flag.BoolVar(&cfg.save, "save", false, "persist the resulting layout to the configured storage")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deckreplay [flags] <trace.jsonl>\n\n")
		fmt.Fprintf(os.Stderr, "Deckreplay replays a recorded input trace through the gesture\n")
		fmt.Fprintf(os.Stderr, "adapters and prints every verb that reaches the engine, the\n")
		fmt.Fprintf(os.Stderr, "arrangement before and after, and the recorded gesture spans.\n")
		fmt.Fprintf(os.Stderr, "Pass \"-\" to read the trace from stdin.\n\n")
		fmt.Fprintf(os.Stderr, "Trace lines are JSON objects, one event each:\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"pointer\",\"kind\":\"press\",\"x\":5,\"y\":3}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"pointer\",\"kind\":\"move\",\"x\":45,\"y\":10}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"pointer\",\"kind\":\"release\"}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"touch\",\"kind\":\"begin\",\"x\":5,\"y\":3}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"clock\",\"kind\":\"elapse\"}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"touch\",\"kind\":\"end\"}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"keyboard\",\"kind\":\"activate\",\"widget\":\"build-log\"}\n")
		fmt.Fprintf(os.Stderr, "  {\"source\":\"keyboard\",\"kind\":\"down\"}\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: exactly one trace file is required (\"-\" for stdin)")
		flag.Usage()
		os.Exit(1)
	}
	cfg.file = flag.Arg(0)

	return cfg
}

// traceEvent is one line of a replay file.
type traceEvent struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Widget string `json:"widget"`
}

// loggingSink prints every verb on its way into the engine.
type loggingSink struct {
	next input.Sink
	out  io.Writer
}

func (l *loggingSink) BeginGesture(widgetID string, source input.Source) bool {
	ok := l.next.BeginGesture(widgetID, source)
	verdict := "accepted"
	if !ok {
		verdict = "refused"
	}
	fmt.Fprintf(l.out, "  begin   %s (%s) %s\n", widgetID, source, verdict)
	return ok
}

func (l *loggingSink) UpdateTarget(widgetID string, column, index int) {
	l.next.UpdateTarget(widgetID, column, index)
	fmt.Fprintf(l.out, "  target  %s -> column %d, index %d\n", widgetID, column, index)
}

func (l *loggingSink) CommitGesture(widgetID string) {
	l.next.CommitGesture(widgetID)
	fmt.Fprintf(l.out, "  commit  %s\n", widgetID)
}

func (l *loggingSink) CancelGesture(widgetID string) {
	l.next.CancelGesture(widgetID)
	fmt.Fprintf(l.out, "  cancel  %s\n", widgetID)
}

// manualClock replaces the touch adapter's wall clock. Armed timers wait
// for an explicit elapse event in the trace instead of real time, so a
// replayed long press promotes at exactly the line the recording says.
type manualClock struct {
	mu    sync.Mutex
	armed []*manualTimer
}

type manualTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

// After implements input.AfterFunc.
func (c *manualClock) After(d time.Duration, fn func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{fn: fn}
	c.armed = append(c.armed, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// Elapse fires every armed timer that was not stopped.
func (c *manualClock) Elapse() {
	c.mu.Lock()
	var fire []*manualTimer
	for _, t := range c.armed {
		if !t.stopped && !t.fired {
			t.fired = true
			fire = append(fire, t)
		}
	}
	c.armed = c.armed[:0]
	c.mu.Unlock()

	for _, t := range fire {
		t.fn()
	}
}

// replayer routes trace events to the adapter they belong to.
type replayer struct {
	pointer  *input.Pointer
	touch    *input.Touch
	keyboard *input.Keyboard
	clock    *manualClock
}

var pointerKinds = map[string]input.PointerEventKind{
	"press":   input.PointerPress,
	"move":    input.PointerMove,
	"release": input.PointerRelease,
}

var touchKinds = map[string]input.TouchEventKind{
	"begin":  input.TouchBegin,
	"move":   input.TouchMove,
	"end":    input.TouchEnd,
	"cancel": input.TouchCancel,
}

func (r *replayer) apply(ev traceEvent) error {
	switch ev.Source {
	case "pointer":
		kind, ok := pointerKinds[ev.Kind]
		if !ok {
			return fmt.Errorf("unknown pointer kind %q", ev.Kind)
		}
		r.pointer.Handle(input.PointerEvent{Kind: kind, X: ev.X, Y: ev.Y})

	case "touch":
		kind, ok := touchKinds[ev.Kind]
		if !ok {
			return fmt.Errorf("unknown touch kind %q", ev.Kind)
		}
		r.touch.Handle(input.TouchEvent{Kind: kind, X: ev.X, Y: ev.Y})

	case "keyboard":
		switch ev.Kind {
		case "activate":
			if ev.Widget == "" {
				return fmt.Errorf("keyboard activate needs a widget")
			}
			r.keyboard.Activate(ev.Widget)
		case "escape":
			r.keyboard.Escape()
		case "up":
			r.keyboard.MoveUp()
		case "down":
			r.keyboard.MoveDown()
		case "left":
			r.keyboard.MoveLeft()
		case "right":
			r.keyboard.MoveRight()
		default:
			return fmt.Errorf("unknown keyboard kind %q", ev.Kind)
		}

	case "clock":
		if ev.Kind != "elapse" {
			return fmt.Errorf("unknown clock kind %q", ev.Kind)
		}
		r.clock.Elapse()

	default:
		return fmt.Errorf("unknown source %q", ev.Source)
	}
	return nil
}

// replayGateway loads persisted state but, unless save is set, hands the
// engine an in-memory copy so a replay never rewrites real state.
func replayGateway(cfg config.Config, save bool) (storage.Gateway, error) {
	if cfg.Storage.Path == "" {
		return storage.NewMemory(), nil
	}
	disk, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if save {
		return disk, nil
	}
	defer disk.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mem := storage.NewMemory()
	if data, ok, err := disk.LoadLayout(ctx); err == nil && ok {
		_ = mem.SaveLayout(ctx, data)
	}
	if data, ok, err := disk.LoadPresets(ctx); err == nil && ok {
		_ = mem.SavePresets(ctx, data)
	}
	if locked, ok, err := disk.LoadLock(ctx); err == nil && ok {
		_ = mem.SaveLock(ctx, locked)
	}
	return mem, nil
}

func printLayout(out io.Writer, eng *engine.Engine) {
	for col := 0; col < eng.Columns(); col++ {
		fmt.Fprintf(out, "  column %d: [%s]\n", col, strings.Join(eng.ColumnWidgets(col), " "))
	}
}

func printSpans(out io.Writer, s *trace.Session) {
	if s == nil || len(s.Children) == 0 {
		return
	}
	fmt.Fprintln(out, "recorded spans:")
	for _, span := range s.Children {
		switch span.Type {
		case trace.EventGestureStart:
			source := span.Attributes["source"]
			outcome := span.Attributes["outcome"]
			if outcome == "" {
				fmt.Fprintf(out, "  gesture %s (%s) still in flight\n", span.Name, source)
				continue
			}
			fmt.Fprintf(out, "  gesture %s (%s) %s after %s\n",
				span.Name, source, outcome, span.Duration.Round(time.Microsecond))
		default:
			if len(span.Attributes) == 0 {
				fmt.Fprintf(out, "  op %s\n", span.Name)
				continue
			}
			pairs := make([]string, 0, len(span.Attributes))
			for k, v := range span.Attributes {
				pairs = append(pairs, k+"="+v)
			}
			fmt.Fprintf(out, "  op %s (%s)\n", span.Name, strings.Join(pairs, ", "))
		}
	}
}

func run(cfg cliConfig) error {
	appCfg, err := config.Load()
	if err != nil {
		return err
	}

	gateway, err := replayGateway(appCfg, cfg.save)
	if err != nil {
		return err
	}
	defer gateway.Close()

	sessions := trace.NewManager(8)
	recorder := trace.NewRecorder(sessions)

	out := os.Stdout

	regs := make([]engine.Registration, 0, len(appCfg.Panels))
	panels := make([]ui.Panel, 0, len(appCfg.Panels))
	for _, p := range appCfg.Panels {
		regs = append(regs, engine.Registration{ID: p.ID, Column: p.Column})
		panels = append(panels, ui.Panel{ID: p.ID, Title: p.Title, Feed: p.Feed})
	}

	eng, err := engine.New(engine.Options{
		Columns:      appCfg.Layout.Columns,
		HistoryLimit: appCfg.Layout.HistoryLimit,
		Widgets:      regs,
		Gateway:      gateway,
		Notifier: engine.NotifierFunc(func(text string) {
			fmt.Fprintf(out, "  notice  %s\n", text)
		}),
		Announcer: engine.AnnouncerFunc(func(text string) {
			fmt.Fprintf(out, "  say     %s\n", text)
		}),
		Tracer: recorder,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	// The board that renders the dashboard is also its hit-testing
	// surface, so a replay sees exactly the geometry a user clicked.
	board := ui.NewBoard(eng, panels, nil)
	board.Update(tea.WindowSizeMsg{Width: cfg.width, Height: cfg.height})

	clock := &manualClock{}
	sink := &loggingSink{next: eng, out: out}
	rep := &replayer{
		pointer:  input.NewPointer(sink, board),
		touch:    input.NewTouch(sink, board, touchConfig(appCfg), clock.After),
		keyboard: input.NewKeyboard(sink, eng, func(text string) {
			fmt.Fprintf(out, "  say     %s\n", text)
		}),
		clock: clock,
	}

	var in io.Reader
	if cfg.file == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(cfg.file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	fmt.Fprintln(out, "before:")
	printLayout(out, eng)
	fmt.Fprintln(out, "events:")

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var ev traceEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := rep.apply(ev); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	if id, ok := rep.pointer.Dragging(); ok {
		fmt.Fprintf(out, "  note    pointer drag of %s never finished\n", id)
	}
	if id, ok := rep.touch.Dragging(); ok {
		fmt.Fprintf(out, "  note    touch drag of %s never finished\n", id)
	}
	if id, ok := rep.keyboard.Grabbed(); ok {
		fmt.Fprintf(out, "  note    keyboard grab of %s never finished\n", id)
	}

	fmt.Fprintln(out, "after:")
	printLayout(out, eng)
	printSpans(out, sessions.Session(recorder.SessionID()))

	flushCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return recorder.Close(flushCtx)
}

func touchConfig(cfg config.Config) input.TouchConfig {
	return input.TouchConfig{
		LongPress: time.Duration(cfg.Input.LongPressMS) * time.Millisecond,
		Slop:      cfg.Input.TouchSlop,
	}
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "deckreplay: %v\n", err)
		os.Exit(1)
	}
}
