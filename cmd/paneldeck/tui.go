package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"paneldeck/internal/config"
	"paneldeck/internal/engine"
	"paneldeck/internal/feed"
	"paneldeck/internal/logging"
	"paneldeck/internal/trace"
	"paneldeck/internal/ui"
)

const (
	noticeBuffer    = 16
	feedEventBuffer = 64
	tracedSessions  = 32
	shutdownTimeout = 3 * time.Second
)

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	gateway, err := openGateway(cfg, logger)
	if err != nil {
		return err
	}
	defer gateway.Close()

	// The engine's callbacks run under its mutex, so delivery to the UI
	// must never block. Dropped messages are transient chrome, not state.
	notices := make(chan string, noticeBuffer)
	announcements := make(chan string, noticeBuffer)
	feedEvents := make(chan feed.Entry, feedEventBuffer)

	sessions := trace.NewManager(tracedSessions)
	recorder := trace.NewRecorder(sessions)

	eng, err := engine.New(engine.Options{
		Columns:      cfg.Layout.Columns,
		HistoryLimit: cfg.Layout.HistoryLimit,
		Widgets:      registrations(cfg),
		Gateway:      gateway,
		Notifier:     engine.NotifierFunc(func(text string) { push(notices, text) }),
		Announcer:    engine.AnnouncerFunc(func(text string) { push(announcements, text) }),
		Tracer:       recorder,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feeds, err := startFeeds(ctx, cfg, feedEvents, logger)
	if err != nil {
		return err
	}
	defer stopFeeds(feeds)

	model := ui.NewAppModel(ui.AppOptions{
		Engine:        eng,
		Panels:        panels(cfg),
		Feeds:         feeds,
		Sessions:      sessions,
		Notices:       notices,
		Announcements: announcements,
		FeedEvents:    feedEvents,
	}).AsTeaModel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer flushCancel()
	if err := recorder.Close(flushCtx); err != nil {
		logger.Warn("trace shutdown", zap.Error(err))
	}
	return nil
}

// push delivers without blocking. A stalled UI loses a status line, never
// the engine.
func push(ch chan<- string, text string) {
	select {
	case ch <- text:
	default:
	}
}

func registrations(cfg config.Config) []engine.Registration {
	regs := make([]engine.Registration, 0, len(cfg.Panels))
	for _, p := range cfg.Panels {
		regs = append(regs, engine.Registration{ID: p.ID, Column: p.Column})
	}
	return regs
}

func panels(cfg config.Config) []ui.Panel {
	ps := make([]ui.Panel, 0, len(cfg.Panels))
	for _, p := range cfg.Panels {
		ps = append(ps, ui.Panel{ID: p.ID, Title: p.Title, Feed: p.Feed})
	}
	return ps
}

func startFeeds(ctx context.Context, cfg config.Config, events chan<- feed.Entry, logger *zap.Logger) ([]*feed.Tailer, error) {
	feeds := make([]*feed.Tailer, 0, len(cfg.Feeds))
	for _, fc := range cfg.Feeds {
		t, err := feed.New(feed.Options{
			Name:   fc.Name,
			Path:   fc.Path,
			Field:  fc.Field,
			Events: events,
			Logger: logger,
		})
		if err != nil {
			stopFeeds(feeds)
			return nil, err
		}
		if err := t.Start(ctx); err != nil {
			stopFeeds(feeds)
			return nil, fmt.Errorf("feed %s: %w", fc.Name, err)
		}
		feeds = append(feeds, t)
	}
	return feeds, nil
}

func stopFeeds(feeds []*feed.Tailer) {
	for _, t := range feeds {
		t.Stop()
	}
}
