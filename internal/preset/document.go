package preset

import (
	"encoding/json"
	"fmt"
	"sort"

	"paneldeck/internal/jsonutil"
	"paneldeck/internal/layout"
)

// document is the wire shape for bulk preset exchange and persistence.
// Layouts stay raw so each preset can be decoded tolerantly on its own.
type document struct {
	Presets      map[string]json.RawMessage `json:"presets"`
	ActivePreset *string                    `json:"activePreset"`
}

// ExportAll encodes every stored preset plus the active pointer as a single
// JSON document. The same bytes round-trip through ImportAll and through
// persistence.
func (s *Store) ExportAll() ([]byte, error) {
	out := struct {
		Presets      map[string][]layout.Placement `json:"presets"`
		ActivePreset *string                       `json:"activePreset"`
	}{
		Presets: make(map[string][]layout.Placement, len(s.presets)),
	}
	for name, snap := range s.presets {
		out.Presets[name] = snap.Placements()
	}
	if s.active != "" {
		active := s.active
		out.ActivePreset = &active
	}
	return json.MarshalIndent(out, "", "  ")
}

// ImportAll merges a preset document into the store. The document itself
// must be a usable JSON object with a presets map; inside it, each preset is
// accepted or rejected independently. A preset is rejected when its name
// sanitizes to empty or its layout keeps no entries after sanitization;
// malformed entries inside an otherwise viable layout are just dropped.
// Accepted presets overwrite same-named ones. The document's active pointer
// is honored only if that preset survived; otherwise the current pointer is
// left alone.
func (s *Store) ImportAll(raw []byte) (accepted, rejected int, err error) {
	var doc document
	if err := jsonutil.UnmarshalWithContext(raw, &doc, "preset document"); err != nil {
		return 0, 0, err
	}
	if doc.Presets == nil {
		return 0, 0, fmt.Errorf("preset document: missing presets object")
	}

	// Sorted iteration keeps the outcome deterministic when two raw names
	// sanitize to the same stored name.
	rawNames := make([]string, 0, len(doc.Presets))
	for n := range doc.Presets {
		rawNames = append(rawNames, n)
	}
	sort.Strings(rawNames)

	for _, rawName := range rawNames {
		clean, nameErr := SanitizeName(rawName)
		if nameErr != nil {
			rejected++
			continue
		}
		snap, _ := layout.SanitizeSnapshot(s.columns, doc.Presets[rawName])
		if snap.Len() == 0 {
			rejected++
			continue
		}
		s.presets[clean] = snap
		accepted++
	}

	if doc.ActivePreset != nil {
		if clean, nameErr := SanitizeName(*doc.ActivePreset); nameErr == nil {
			if _, ok := s.presets[clean]; ok {
				s.active = clean
			}
		}
	}
	return accepted, rejected, nil
}
