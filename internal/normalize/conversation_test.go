package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationFirestoreShape(t *testing.T) {
	raw := map[string]any{
		"document": map[string]any{
			"name":       "projects/p/databases/(default)/documents/conversations/conv-9",
			"createTime": "2026-02-01T09:00:00Z",
			"fields": map[string]any{
				"channel_type": map[string]any{"stringValue": "email"},
				"name":         map[string]any{"stringValue": "Bob"},
				"email":        map[string]any{"stringValue": "bob@x.com"},
				"subject":      map[string]any{"stringValue": "Where is my order"},
				"status":       map[string]any{"stringValue": "Open"},
			},
		},
	}
	c := Conversation(raw)
	require.NotNil(t, c)
	assert.Equal(t, "conv-9", c.ConversationID)
	assert.Equal(t, "email", c.ChannelType)
	assert.Equal(t, "Open", c.Status)
	assert.Equal(t, "2026-02-01T09:00:00Z", c.StartedAt)
	assert.NotNil(t, c.Messages)
}

func TestConversationFlatShapeAndDefaults(t *testing.T) {
	c := Conversation(map[string]any{
		"conversation_id": "c1",
		"session_id":      "101530150820261",
		"channel_type":    "inapp_public",
	})
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ConversationID)
	assert.Equal(t, "Unknown", c.Status)

	assert.Nil(t, Conversation(map[string]any{"email": "orphan@x.com"}))
}

func TestMessageDriveLinkRewrite(t *testing.T) {
	m := Message(map[string]any{
		"sender":     "User",
		"message":    "see photo",
		"image_link": "https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing",
	})
	require.NotNil(t, m)
	assert.Equal(t, "user", m.Sender)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=1AbC_d-9", m.ImageURL)
	assert.True(t, m.FromCustomer())
}

func TestDriveLinkPassthrough(t *testing.T) {
	assert.Equal(t, "https://example.com/a.png", DriveLink("https://example.com/a.png"))
	malformed := "https://drive.google.com/file/d/"
	assert.Equal(t, malformed, DriveLink(malformed))
}

func TestMessagePrefersDecodedBody(t *testing.T) {
	m := Message(map[string]any{
		"sender":         "agent",
		"message":        "PGI+cmF3PC9iPg==",
		"decodedMessage": "readable text",
	})
	require.NotNil(t, m)
	assert.Equal(t, "readable text", m.Body)
	assert.False(t, m.FromCustomer())
}

func TestMessagesSortChronologically(t *testing.T) {
	msgs := Messages([]map[string]any{
		{"sender": "agent", "message": "second", "timestamp": "2026-01-02T00:00:00Z"},
		{"sender": "user", "message": "first", "timestamp": "2026-01-01T00:00:00Z"},
		{"sender": "user", "body": ""},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "second", msgs[1].Body)
}
