package storage

import (
	"context"
	"sync"
)

// Memory is a Gateway that holds state in process memory. It backs the
// dashboard when no storage path is configured (state then lives only for
// the session) and doubles as the test gateway.
type Memory struct {
	mu      sync.Mutex
	layout  []byte
	presets []byte
	lock    *bool
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadLayout returns the stored layout bytes.
func (m *Memory) LoadLayout(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.layout == nil {
		return nil, false, nil
	}
	out := make([]byte, len(m.layout))
	copy(out, m.layout)
	return out, true, nil
}

// SaveLayout stores the layout bytes.
func (m *Memory) SaveLayout(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = append([]byte(nil), data...)
	return nil
}

// LoadPresets returns the stored preset document bytes.
func (m *Memory) LoadPresets(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.presets == nil {
		return nil, false, nil
	}
	out := make([]byte, len(m.presets))
	copy(out, m.presets)
	return out, true, nil
}

// SavePresets stores the preset document bytes.
func (m *Memory) SavePresets(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = append([]byte(nil), data...)
	return nil
}

// LoadLock returns the stored lock flag.
func (m *Memory) LoadLock(ctx context.Context) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lock == nil {
		return false, false, nil
	}
	return *m.lock, true, nil
}

// SaveLock stores the lock flag.
func (m *Memory) SaveLock(ctx context.Context, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lock = &locked
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
