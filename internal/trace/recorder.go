package trace

import (
	"context"
	"sync"
	"time"
)

// Recorder turns engine gesture callbacks into trace events feeding a
// Manager. One Recorder covers one app run: the session span opens at
// construction and closes on Close, which is also when the OTLP export
// flushes.
type Recorder struct {
	m       *Manager
	traceID string
	rootID  string

	mu      sync.Mutex
	open    string // span ID of the in-flight gesture, if any
	grabbed string // widget the in-flight gesture holds
}

// NewRecorder opens a session on the manager and returns the recorder that
// feeds it.
func NewRecorder(m *Manager) *Recorder {
	r := &Recorder{
		m:       m,
		traceID: NewTraceID(),
		rootID:  NewSpanID(),
	}
	m.HandleEvent(TraceEvent{
		TraceID:   r.traceID,
		SpanID:    r.rootID,
		Type:      EventSessionStart,
		Name:      "session",
		Timestamp: time.Now(),
	})
	return r
}

// SessionID returns the trace ID of the session this recorder feeds.
func (r *Recorder) SessionID() string {
	return r.traceID
}

// GestureStarted opens a gesture span named after the grabbed widget.
func (r *Recorder) GestureStarted(widgetID, source string) {
	r.mu.Lock()
	spanID := NewSpanID()
	r.open = spanID
	r.grabbed = widgetID
	r.mu.Unlock()

	r.m.HandleEvent(TraceEvent{
		TraceID:    r.traceID,
		SpanID:     spanID,
		ParentID:   r.rootID,
		Type:       EventGestureStart,
		Name:       widgetID,
		Timestamp:  time.Now(),
		Attributes: map[string]string{"source": source},
	})
}

// GestureEnded closes the in-flight gesture span with its outcome. An end
// for a widget the recorder never saw grabbed is dropped.
func (r *Recorder) GestureEnded(widgetID, source, outcome string) {
	r.mu.Lock()
	spanID := r.open
	if spanID == "" || r.grabbed != widgetID {
		r.mu.Unlock()
		return
	}
	r.open = ""
	r.grabbed = ""
	r.mu.Unlock()

	r.m.HandleEvent(TraceEvent{
		TraceID:    r.traceID,
		SpanID:     spanID,
		ParentID:   r.rootID,
		Type:       EventGestureEnd,
		Name:       widgetID,
		Timestamp:  time.Now(),
		Attributes: map[string]string{"source": source, "outcome": outcome},
	})
}

// Operation records an instant span for a layout operation (undo, redo,
// reset, preset mutation).
func (r *Recorder) Operation(name string, attrs map[string]string) {
	r.m.HandleEvent(TraceEvent{
		TraceID:    r.traceID,
		SpanID:     NewSpanID(),
		ParentID:   r.rootID,
		Type:       EventOperation,
		Name:       name,
		Timestamp:  time.Now(),
		Attributes: attrs,
	})
}

// Close ends the session and flushes the exporter.
func (r *Recorder) Close(ctx context.Context) error {
	r.m.HandleEvent(TraceEvent{
		TraceID:   r.traceID,
		SpanID:    r.rootID,
		Type:      EventSessionEnd,
		Name:      "session",
		Timestamp: time.Now(),
	})
	return r.m.Shutdown(ctx)
}
