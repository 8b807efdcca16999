// Package normalize maps the heterogeneous payload shapes returned by the
// workflow backend (flat JSON with canonical or legacy field names, and
// Firestore typed-field documents) onto the fixed internal record types.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Decode unwraps a Firestore typed-field wrapper into its plain value.
// Numeric wrappers stringify because ids travel as strings everywhere else.
// Values that are not wrapper objects pass through unchanged, so new backend
// field shapes degrade gracefully instead of failing the whole record.
func Decode(raw any) any {
	m, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	if v, ok := m["stringValue"]; ok {
		return v
	}
	if v, ok := m["integerValue"]; ok {
		return scalarString(v)
	}
	if v, ok := m["doubleValue"]; ok {
		return scalarString(v)
	}
	if v, ok := m["booleanValue"]; ok {
		return v
	}
	if v, ok := m["timestampValue"]; ok {
		return v
	}
	if _, ok := m["nullValue"]; ok {
		return nil
	}
	return raw
}

// Str decodes raw and renders it as a string. Missing or null values and
// non-scalar leftovers come back as "".
func Str(raw any) string {
	switch v := Decode(raw).(type) {
	case string:
		return v
	case float64, int, int64, bool:
		return scalarString(v)
	default:
		return ""
	}
}

// EpochMillis decodes raw into epoch milliseconds. Accepts RFC3339 strings,
// numeric millisecond values, and digit strings. Zero means unparseable.
func EpochMillis(raw any) int64 {
	switch v := Decode(raw).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UnixMilli()
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return 0
	default:
		return 0
	}
}

// TimeString decodes raw into an ISO timestamp string when possible.
func TimeString(raw any) string {
	switch v := Decode(raw).(type) {
	case string:
		return v
	case float64:
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func scalarString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case bool:
		return strconv.FormatBool(n)
	default:
		return ""
	}
}
