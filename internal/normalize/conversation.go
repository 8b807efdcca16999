package normalize

import (
	"regexp"
	"sort"
	"strings"

	"support-desk-backend/internal/model"
)

var driveFileRe = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)/`)

// DriveLink rewrites Google Drive share links into directly viewable image
// URLs. Non-Drive URLs pass through unchanged.
func DriveLink(url string) string {
	if !strings.Contains(url, "drive.google.com/file/d/") {
		return url
	}
	m := driveFileRe.FindStringSubmatch(url)
	if m == nil {
		return url
	}
	return "https://drive.google.com/uc?export=view&id=" + m[1]
}

// Conversation normalizes a raw conversation record. Returns nil when no
// identity can be derived from any known field.
func Conversation(raw map[string]any) *model.Conversation {
	flat := Flatten(raw)
	id := firstString(flat, "conversation_id", "conversationId", "session_id", "sessionId", keyDocumentID, "id")
	if id == "" {
		return nil
	}
	c := &model.Conversation{
		ConversationID: id,
		ChannelType:    firstString(flat, "channel_type", "channelType"),
		SessionID:      firstString(flat, "session_id", "sessionId"),
		Name:           firstString(flat, "name", "Name", "customer_name"),
		Email:          firstString(flat, "email", "Email", "user_email"),
		Subject:        firstString(flat, "subject", "Subject"),
		ContactID:      firstString(flat, "contact_id", "contactId"),
		Status:         firstString(flat, "status", "Status"),
		StartedAt:      startedAt(flat),
		UpdatedAt:      updatedAt(flat),
		Messages:       []model.Message{},
	}
	if c.Status == "" {
		c.Status = "Unknown"
	}
	return c
}

func startedAt(flat map[string]any) string {
	if s := TimeString(flat["started_at"]); s != "" {
		return s
	}
	if s := TimeString(flat["timestamp"]); s != "" {
		return s
	}
	if s, _ := flat[keyCreateTime].(string); s != "" {
		return s
	}
	return ""
}

func updatedAt(flat map[string]any) string {
	if s := TimeString(flat["updated_at"]); s != "" {
		return s
	}
	if s, _ := flat[keyUpdateTime].(string); s != "" {
		return s
	}
	return ""
}

// Message normalizes a raw chat message. The decoded body is preferred over
// the raw one when the backend sends both.
func Message(raw map[string]any) *model.Message {
	flat := Flatten(raw)
	body := firstString(flat, "decodedMessage", "decoded_message", "message", "body", "text")
	image := firstString(flat, "image_link", "imageLink", "image_url", "imageUrl")
	m := &model.Message{
		MessageID: firstString(flat, "message_id", "messageId", keyDocumentID, "id"),
		Sender:    strings.ToLower(firstString(flat, "sender", "Sender", "role")),
		Body:      body,
		ImageURL:  DriveLink(image),
		Timestamp: messageTimestamp(flat),
	}
	if m.Body == "" && m.ImageURL == "" {
		return nil
	}
	return m
}

func messageTimestamp(flat map[string]any) string {
	if s := TimeString(flat["timestamp"]); s != "" {
		return s
	}
	if s := TimeString(flat["created_at"]); s != "" {
		return s
	}
	if s, _ := flat[keyCreateTime].(string); s != "" {
		return s
	}
	return ""
}

// Messages normalizes a raw message list and sorts it chronologically. The
// sort is stable so same-timestamp messages keep their arrival order.
func Messages(raws []map[string]any) []model.Message {
	out := make([]model.Message, 0, len(raws))
	for _, raw := range raws {
		if m := Message(raw); m != nil {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
