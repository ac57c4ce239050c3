package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// saveKind identifies one of the gateway's three values in the pending set.
type saveKind int

const (
	saveLayout saveKind = iota
	saveLock
	savePresets
)

// writeTimeout bounds a single gateway write from the saver goroutine.
const writeTimeout = 5 * time.Second

// Saver writes gateway values behind the caller's back. Enqueueing never
// blocks: each value slot holds only the latest pending bytes, so a burst of
// layout changes collapses into one write. Failed writes are reported
// through the error callback; the caller keeps running on in-memory state.
type Saver struct {
	gw      Gateway
	logger  *zap.Logger
	onError func(error)

	mu      sync.Mutex
	pending map[saveKind][]byte

	wake     chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
	group    errgroup.Group
}

// NewSaver starts the write-behind goroutine. onError may be nil; logger
// must not be.
func NewSaver(gw Gateway, logger *zap.Logger, onError func(error)) *Saver {
	s := &Saver{
		gw:      gw,
		logger:  logger,
		onError: onError,
		pending: make(map[saveKind][]byte),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	s.group.Go(s.run)
	return s
}

// QueueLayout schedules the layout bytes for persistence.
func (s *Saver) QueueLayout(data []byte) {
	s.enqueue(saveLayout, append([]byte(nil), data...))
}

// QueuePresets schedules the preset document for persistence.
func (s *Saver) QueuePresets(data []byte) {
	s.enqueue(savePresets, append([]byte(nil), data...))
}

// QueueLock schedules the lock flag for persistence.
func (s *Saver) QueueLock(locked bool) {
	v := []byte("false")
	if locked {
		v = []byte("true")
	}
	s.enqueue(saveLock, v)
}

func (s *Saver) enqueue(kind saveKind, data []byte) {
	s.mu.Lock()
	s.pending[kind] = data
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close flushes any pending writes and stops the goroutine.
func (s *Saver) Close() error {
	s.stopOnce.Do(func() { close(s.quit) })
	return s.group.Wait()
}

func (s *Saver) run() error {
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.quit:
			s.flush()
			return nil
		}
	}
}

// flush drains the pending set and writes each value once.
func (s *Saver) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[saveKind][]byte)
	s.mu.Unlock()

	for _, kind := range []saveKind{saveLayout, savePresets, saveLock} {
		data, ok := batch[kind]
		if !ok {
			continue
		}
		if err := s.write(kind, data); err != nil {
			s.logger.Warn("persist failed",
				zap.Int("kind", int(kind)),
				zap.Error(err))
			if s.onError != nil {
				s.onError(err)
			}
		}
	}
}

func (s *Saver) write(kind saveKind, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	switch kind {
	case savePresets:
		return s.gw.SavePresets(ctx, data)
	case saveLock:
		return s.gw.SaveLock(ctx, string(data) == "true")
	default:
		return s.gw.SaveLayout(ctx, data)
	}
}
