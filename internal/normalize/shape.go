package normalize

import (
	"encoding/json"
	"strings"
)

// Reserved keys carrying Firestore document metadata into the flattened view.
const (
	keyDocumentID = "__document_id"
	keyCreateTime = "__create_time"
	keyUpdateTime = "__update_time"
)

// shapeDetector recognizes one known raw record shape and converts it into a
// flat key→value map ready for the per-field fallback chains. Detectors are
// tried in order; the first match wins.
type shapeDetector func(raw map[string]any) (map[string]any, bool)

var detectors = []shapeDetector{
	detectWrappedDocument,
	detectBareDocument,
	detectFlat,
}

// Flatten reduces any of the known raw shapes to a flat map with decoded
// scalar values. The flat shapes pass through untouched.
func Flatten(raw map[string]any) map[string]any {
	for _, detect := range detectors {
		if flat, ok := detect(raw); ok {
			return flat
		}
	}
	return raw
}

func detectWrappedDocument(raw map[string]any) (map[string]any, bool) {
	doc, ok := raw["document"].(map[string]any)
	if !ok {
		return nil, false
	}
	return flattenDocument(doc)
}

func detectBareDocument(raw map[string]any) (map[string]any, bool) {
	if _, ok := raw["fields"].(map[string]any); !ok {
		return nil, false
	}
	return flattenDocument(raw)
}

func detectFlat(raw map[string]any) (map[string]any, bool) {
	return raw, true
}

func flattenDocument(doc map[string]any) (map[string]any, bool) {
	fields, ok := doc["fields"].(map[string]any)
	if !ok {
		return nil, false
	}
	flat := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		flat[k] = Decode(v)
	}
	if name, _ := doc["name"].(string); name != "" {
		parts := strings.Split(name, "/")
		flat[keyDocumentID] = parts[len(parts)-1]
	}
	if ct, _ := doc["createTime"].(string); ct != "" {
		flat[keyCreateTime] = ct
	}
	if ut, _ := doc["updateTime"].(string); ut != "" {
		flat[keyUpdateTime] = ut
	}
	return flat, true
}

// Documents splits a list payload into individual raw records. The backend
// answers with a bare array, a Firestore {documents: [...]} wrapper, a single
// object, or nothing at all depending on which workflow revision responds.
func Documents(payload json.RawMessage) []map[string]any {
	if len(payload) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil
	}
	switch v := decoded.(type) {
	case []any:
		return onlyMaps(v)
	case map[string]any:
		if docs, ok := v["documents"].([]any); ok {
			out := make([]map[string]any, 0, len(docs))
			for _, d := range docs {
				if dm, ok := d.(map[string]any); ok {
					out = append(out, map[string]any{"document": dm})
				}
			}
			return out
		}
		return []map[string]any{v}
	default:
		return nil
	}
}

func onlyMaps(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// firstString walks a priority-ordered fallback chain and returns the first
// key that decodes to a non-empty string.
func firstString(flat map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := flat[k]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(Str(v)); s != "" {
			return s
		}
	}
	return ""
}

func firstMillis(flat map[string]any, keys ...string) int64 {
	for _, k := range keys {
		v, ok := flat[k]
		if !ok {
			continue
		}
		if ms := EpochMillis(v); ms != 0 {
			return ms
		}
	}
	return 0
}

// stringList accepts either a list of plain strings or a list of single-field
// objects ({"orderId": "1025"}) and returns the contained values.
func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			for _, inner := range v {
				if s := Str(inner); s != "" {
					out = append(out, s)
				}
				break
			}
		}
	}
	return out
}
