// Package preset manages named board arrangements: saving, loading,
// renaming, and bulk import/export. Names pass through sanitization before
// any lookup or store, so the displayed name is always the stored name.
// The store is plain data; the engine is its only writer.
package preset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"paneldeck/internal/layout"
)

var (
	// ErrInvalidName reports a preset name that is empty after sanitization.
	ErrInvalidName = errors.New("preset name is empty")

	// ErrNotFound reports a lookup for a preset that does not exist.
	ErrNotFound = errors.New("preset not found")

	// ErrNameTaken reports a rename onto a name held by another preset.
	ErrNameTaken = errors.New("preset name already in use")
)

// suggestDistance caps how far a name may be from a stored one to still be
// offered as a "did you mean" hint.
const suggestDistance = 3

// Store holds named snapshots plus the active-preset pointer. The column
// count bounds imported layouts.
type Store struct {
	columns int
	presets map[string]layout.Snapshot
	active  string // empty when no preset is active
}

// NewStore creates an empty store for boards with the given column count.
func NewStore(columns int) *Store {
	return &Store{
		columns: columns,
		presets: make(map[string]layout.Snapshot),
	}
}

// Save stores a snapshot under the sanitized name, overwriting any preset
// already held under it, and marks it active. Returns the stored name.
func (s *Store) Save(name string, snap layout.Snapshot) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	s.presets[clean] = snap
	s.active = clean
	return clean, nil
}

// Load returns the snapshot stored under the sanitized name and marks it
// active. A missing preset returns ErrNotFound, with a closest-match hint
// when one is plausible.
func (s *Store) Load(name string) (layout.Snapshot, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return layout.Snapshot{}, err
	}
	snap, ok := s.presets[clean]
	if !ok {
		if hint, found := s.closest(clean); found {
			return layout.Snapshot{}, fmt.Errorf("preset %q (closest match: %q): %w", clean, hint, ErrNotFound)
		}
		return layout.Snapshot{}, fmt.Errorf("preset %q: %w", clean, ErrNotFound)
	}
	s.active = clean
	return snap, nil
}

// Delete removes a preset. If it was active, the active pointer clears.
func (s *Store) Delete(name string) error {
	clean, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if _, ok := s.presets[clean]; !ok {
		return fmt.Errorf("preset %q: %w", clean, ErrNotFound)
	}
	delete(s.presets, clean)
	if s.active == clean {
		s.active = ""
	}
	return nil
}

// Rename moves a preset to a new sanitized name. Renaming onto the preset's
// own name is a no-op; onto another existing preset it fails with
// ErrNameTaken. The active pointer follows the rename. Returns the stored
// name.
func (s *Store) Rename(oldName, newName string) (string, error) {
	oldClean, err := SanitizeName(oldName)
	if err != nil {
		return "", err
	}
	newClean, err := SanitizeName(newName)
	if err != nil {
		return "", err
	}
	snap, ok := s.presets[oldClean]
	if !ok {
		return "", fmt.Errorf("preset %q: %w", oldClean, ErrNotFound)
	}
	if newClean == oldClean {
		return newClean, nil
	}
	if _, taken := s.presets[newClean]; taken {
		return "", fmt.Errorf("preset %q: %w", newClean, ErrNameTaken)
	}
	delete(s.presets, oldClean)
	s.presets[newClean] = snap
	if s.active == oldClean {
		s.active = newClean
	}
	return newClean, nil
}

// Get returns a preset without touching the active pointer.
func (s *Store) Get(name string) (layout.Snapshot, bool) {
	clean, err := SanitizeName(name)
	if err != nil {
		return layout.Snapshot{}, false
	}
	snap, ok := s.presets[clean]
	return snap, ok
}

// Names returns all stored preset names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.presets))
	for n := range s.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Active returns the active preset name, if any.
func (s *Store) Active() (string, bool) {
	return s.active, s.active != ""
}

// Count returns the number of stored presets.
func (s *Store) Count() int {
	return len(s.presets)
}

// closest returns the stored name nearest to the given one, if within
// suggestDistance edits.
func (s *Store) closest(name string) (string, bool) {
	best := ""
	bestDist := suggestDistance + 1
	for _, n := range s.Names() {
		if d := levenshtein.ComputeDistance(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, best != ""
}
