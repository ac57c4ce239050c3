// Package storage persists the dashboard's durable state behind a narrow
// gateway: three independent values (the board layout, the preset document,
// and the lock flag) that load and save without knowledge of each other.
// Missing or corrupt values load as absent, never as errors; the board must
// come up with defaults no matter what is on disk.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the backing store cannot be reached or
// written. Callers degrade gracefully: in-memory state stays authoritative.
var ErrUnavailable = errors.New("storage unavailable")

// Gateway is the persistence port. Implementations must tolerate concurrent
// calls; the write-behind saver issues them from its own goroutine.
type Gateway interface {
	// LoadLayout returns the persisted layout bytes. ok is false when no
	// usable value is stored.
	LoadLayout(ctx context.Context) (data []byte, ok bool, err error)
	SaveLayout(ctx context.Context, data []byte) error

	// LoadPresets returns the persisted preset document bytes.
	LoadPresets(ctx context.Context) (data []byte, ok bool, err error)
	SavePresets(ctx context.Context, data []byte) error

	// LoadLock returns the persisted lock flag. ok is false when no usable
	// value is stored.
	LoadLock(ctx context.Context) (locked bool, ok bool, err error)
	SaveLock(ctx context.Context, locked bool) error

	Close() error
}
