// Package jsonutil provides shared utilities for JSON parsing patterns:
// error handling, tolerant field extraction, and line-oriented decoding.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// GetString safely extracts a string value from a map[string]interface{}.
// Returns the value if it's a string, otherwise returns empty string.
func GetString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetStringOr safely extracts a string value from a map[string]interface{}
// with a default value if the key doesn't exist or isn't a string.
func GetStringOr(m map[string]interface{}, key string, defaultValue string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return defaultValue
}

// GetInt extracts an integer from a map[string]interface{}. JSON numbers
// decode as float64; a value with a fractional part is not an integer, so
// ok is false for it, for non-numbers, and for missing keys.
func GetInt(m map[string]interface{}, key string) (int, bool) {
	val, ok := m[key].(float64)
	if !ok || val != float64(int(val)) {
		return 0, false
	}
	return int(val), true
}

// GetFloat extracts a numeric value from a map[string]interface{}.
func GetFloat(m map[string]interface{}, key string) (float64, bool) {
	val, ok := m[key].(float64)
	return val, ok
}

// UnmarshalArrayAllowEmpty unmarshals JSON data into a slice, allowing
// empty arrays.
func UnmarshalArrayAllowEmpty[T any](data []byte, context string) ([]T, error) {
	var entries []T
	if err := UnmarshalWithContext(data, &entries, context); err != nil {
		return nil, err
	}
	return entries, nil
}

// UnmarshalLine unmarshals a single JSON line (string) into v.
// Returns an error if the line is empty or cannot be parsed.
func UnmarshalLine(line string, v interface{}) error {
	if line == "" {
		return fmt.Errorf("empty JSON line")
	}
	return json.Unmarshal([]byte(line), v)
}

// UnmarshalLineSafe unmarshals a single JSON line (string) into v.
// Returns false if the line is empty or cannot be parsed, true on success.
// Useful when parsing multiple lines where some may be invalid.
func UnmarshalLineSafe(line string, v interface{}) bool {
	return UnmarshalLine(line, v) == nil
}
