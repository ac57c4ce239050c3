package trace

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// EventType identifies the kind of trace event
type EventType string

const (
	EventSessionStart EventType = "session_start" // App session begins
	EventSessionEnd   EventType = "session_end"   // App session ends
	EventGestureStart EventType = "gesture_start" // Widget grabbed
	EventGestureEnd   EventType = "gesture_end"   // Gesture committed or cancelled
	EventOperation    EventType = "operation"     // Instant layout operation (undo, preset load, ...)
)

// TraceEvent represents a single event in a session trace
type TraceEvent struct {
	TraceID    string            // Unique ID for the entire session
	SpanID     string            // Unique ID for this span
	ParentID   string            // Parent span ID (empty for root)
	Type       EventType         // Event type
	Name       string            // Human-readable name (widget ID, operation name)
	Timestamp  time.Time         // When the event occurred
	Attributes map[string]string // Additional metadata
}

// NewTraceID generates a random 16-byte trace ID as hex string (32 characters)
func NewTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// NewSpanID generates a random 8-byte span ID as hex string (16 characters)
func NewSpanID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
