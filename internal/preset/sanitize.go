package preset

import "strings"

// MaxNameLen caps preset name length in runes. Longer names are truncated,
// not rejected.
const MaxNameLen = 100

// SanitizeName normalizes a user-supplied preset name: markup tags are
// stripped, whitespace runs collapse to single spaces, surrounding
// whitespace is trimmed, and the result is truncated to MaxNameLen runes.
// A name that is empty after all that returns ErrInvalidName.
func SanitizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(stripTags(raw)), " ")
	if runes := []rune(name); len(runes) > MaxNameLen {
		name = strings.TrimRight(string(runes[:MaxNameLen]), " ")
	}
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// stripTags removes <...> spans. An unclosed tag swallows the rest of the
// string; a name that was all markup comes back empty.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
