package trace

import (
	"context"
	"sync"
	"time"
)

// Span represents a span with start time and duration. Gesture spans carry
// Duration=0 while the grab is still in flight; operation spans are instant
// and complete on arrival.
type Span struct {
	TraceID    string
	SpanID     string
	ParentID   string
	Type       EventType
	Name       string
	StartTime  time.Time
	Duration   time.Duration
	Attributes map[string]string
}

// Session is one app run: a root span plus the gestures and operations that
// happened under it.
type Session struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Root      *Span
	Children  []*Span
	Status    string // "running" or "completed"
}

// Manager stores recent sessions and re-exports completed ones over OTLP.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Session    // traceID -> Session
	pendingSpans map[string]*TraceEvent // spanID -> gesture start waiting for its end
	recentIDs    []string               // Ring of recent session IDs
	maxSessions  int
	exporter     *OTLPExporter
}

// NewManager creates a session manager keeping at most maxSessions around.
func NewManager(maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = 10
	}
	exporter, _ := NewOTLPExporter(context.Background())
	return &Manager{
		sessions:     make(map[string]*Session),
		pendingSpans: make(map[string]*TraceEvent),
		recentIDs:    make([]string, 0, maxSessions),
		maxSessions:  maxSessions,
		exporter:     exporter,
	}
}

// HandleEvent processes an incoming trace event. Gesture starts create a
// child span immediately with Duration=0 so a live view can show the grab in
// flight; gesture ends fill in the duration. Events for a session that was
// never started are dropped. Returns the affected Session.
func (m *Manager) HandleEvent(event TraceEvent) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Type {
	case EventSessionStart:
		return m.startSession(event)
	case EventSessionEnd:
		return m.endSession(event)
	case EventGestureStart:
		return m.startGesture(event)
	case EventGestureEnd:
		return m.endGesture(event)
	case EventOperation:
		return m.recordOperation(event)
	}
	return nil
}

// startSession opens a new session with its root span. Must be called with
// m.mu held.
func (m *Manager) startSession(event TraceEvent) *Session {
	s := &Session{
		ID:        event.TraceID,
		StartTime: event.Timestamp,
		Status:    "running",
		Root:      spanFromEvent(event),
	}
	m.sessions[event.TraceID] = s
	m.addToRecentIDs(event.TraceID)
	return s
}

// endSession completes the root span and re-exports the whole tree. Export
// runs synchronously: session_end is the final event before the process
// exits, so the flush cannot be deferred. Must be called with m.mu held.
func (m *Manager) endSession(event TraceEvent) *Session {
	s := m.sessions[event.TraceID]
	if s == nil {
		return nil
	}
	s.EndTime = event.Timestamp
	s.Status = "completed"
	s.Root.Duration = event.Timestamp.Sub(s.Root.StartTime)
	mergeAttributes(s.Root, event.Attributes)

	if m.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = m.exporter.ExportSession(ctx, s)
		cancel()
	}
	return s
}

// startGesture attaches an in-flight gesture span to the session. Must be
// called with m.mu held.
func (m *Manager) startGesture(event TraceEvent) *Session {
	s := m.sessions[event.TraceID]
	if s == nil {
		return nil
	}
	m.pendingSpans[event.SpanID] = &event
	s.Children = append(s.Children, spanFromEvent(event))
	return s
}

// endGesture fills in the duration and outcome of a pending gesture. An end
// without a matching start is dropped. Must be called with m.mu held.
func (m *Manager) endGesture(event TraceEvent) *Session {
	start, found := m.pendingSpans[event.SpanID]
	if !found {
		return nil
	}
	delete(m.pendingSpans, event.SpanID)

	s := m.sessions[event.TraceID]
	if s == nil {
		return nil
	}
	for _, span := range s.Children {
		if span.SpanID == event.SpanID {
			span.Duration = event.Timestamp.Sub(start.Timestamp)
			mergeAttributes(span, event.Attributes)
			break
		}
	}
	return s
}

// recordOperation attaches an instant, already-complete span. Must be called
// with m.mu held.
func (m *Manager) recordOperation(event TraceEvent) *Session {
	s := m.sessions[event.TraceID]
	if s == nil {
		return nil
	}
	s.Children = append(s.Children, spanFromEvent(event))
	return s
}

func spanFromEvent(event TraceEvent) *Span {
	span := &Span{
		TraceID:    event.TraceID,
		SpanID:     event.SpanID,
		ParentID:   event.ParentID,
		Type:       event.Type,
		Name:       event.Name,
		StartTime:  event.Timestamp,
		Attributes: make(map[string]string),
	}
	mergeAttributes(span, event.Attributes)
	return span
}

func mergeAttributes(span *Span, attrs map[string]string) {
	for k, v := range attrs {
		span.Attributes[k] = v
	}
}

// addToRecentIDs adds a session ID to the recent list, evicting old ones if
// needed. Must be called with m.mu held.
func (m *Manager) addToRecentIDs(traceID string) {
	for i, id := range m.recentIDs {
		if id == traceID {
			m.recentIDs = append(append(m.recentIDs[:i], m.recentIDs[i+1:]...), traceID)
			return
		}
	}

	m.recentIDs = append(m.recentIDs, traceID)

	if len(m.recentIDs) > m.maxSessions {
		oldestID := m.recentIDs[0]
		m.recentIDs = m.recentIDs[1:]
		delete(m.sessions, oldestID)
	}
}

// Session returns a session by ID.
func (m *Manager) Session(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// ActiveSession returns the currently running session (if any).
func (m *Manager) ActiveSession() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Status == "running" {
			return s
		}
	}
	return nil
}

// RecentSessions returns recent sessions (newest first).
func (m *Manager) RecentSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Session, 0, len(m.recentIDs))
	for i := len(m.recentIDs) - 1; i >= 0; i-- {
		if s, exists := m.sessions[m.recentIDs[i]]; exists {
			result = append(result, s)
		}
	}
	return result
}

// Shutdown flushes pending exports and closes the OTLP exporter.
// Must be called before process exit to ensure sessions are exported.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	exporter := m.exporter
	m.mu.Unlock()

	if exporter != nil {
		return exporter.Shutdown(ctx)
	}
	return nil
}
