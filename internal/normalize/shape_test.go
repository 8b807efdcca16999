package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenWrappedDocument(t *testing.T) {
	raw := map[string]any{
		"document": map[string]any{
			"name":       "projects/p/databases/(default)/documents/tickets/VEL-000101",
			"createTime": "2026-01-15T10:30:00Z",
			"updateTime": "2026-01-16T08:00:00Z",
			"fields": map[string]any{
				"Name":  map[string]any{"stringValue": "Ada"},
				"count": map[string]any{"integerValue": "3"},
			},
		},
	}
	flat := Flatten(raw)
	assert.Equal(t, "Ada", flat["Name"])
	assert.Equal(t, "3", flat["count"])
	assert.Equal(t, "VEL-000101", flat[keyDocumentID])
	assert.Equal(t, "2026-01-15T10:30:00Z", flat[keyCreateTime])
	assert.Equal(t, "2026-01-16T08:00:00Z", flat[keyUpdateTime])
}

func TestFlattenBareDocument(t *testing.T) {
	raw := map[string]any{
		"fields": map[string]any{
			"email": map[string]any{"stringValue": "a@b.com"},
		},
	}
	flat := Flatten(raw)
	assert.Equal(t, "a@b.com", flat["email"])
}

func TestFlattenFlatPassthrough(t *testing.T) {
	raw := map[string]any{"id": "x", "email": "a@b.com"}
	assert.Equal(t, raw, Flatten(raw))
}

func TestDocumentsBareArray(t *testing.T) {
	payload := json.RawMessage(`[{"id":"1"},{"id":"2"},"junk"]`)
	docs := Documents(payload)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0]["id"])
}

func TestDocumentsFirestoreWrapper(t *testing.T) {
	payload := json.RawMessage(`{"documents":[{"name":"c/abc","fields":{"id":{"stringValue":"1"}}}]}`)
	docs := Documents(payload)
	require.Len(t, docs, 1)
	flat := Flatten(docs[0])
	assert.Equal(t, "1", flat["id"])
	assert.Equal(t, "abc", flat[keyDocumentID])
}

func TestDocumentsSingleObjectAndEmpty(t *testing.T) {
	docs := Documents(json.RawMessage(`{"id":"only"}`))
	require.Len(t, docs, 1)
	assert.Equal(t, "only", docs[0]["id"])

	assert.Nil(t, Documents(nil))
	assert.Nil(t, Documents(json.RawMessage(`null`)))
	assert.Nil(t, Documents(json.RawMessage(`not json`)))
}
