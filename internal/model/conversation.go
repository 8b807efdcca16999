package model

const (
	ChannelTypeEmail = "email"
	ChannelTypeInApp = "inapp_public"
)

// SessionIDLayout is the legacy HHMMSSDDMMYYYY session id format the
// workflow backend expects on in-app threads and order history pulls.
const SessionIDLayout = "15040502012006"

type Conversation struct {
	ConversationID string    `json:"conversationId"`
	ChannelType    string    `json:"channelType"`
	SessionID      string    `json:"sessionId,omitempty"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Subject        string    `json:"subject,omitempty"`
	ContactID      string    `json:"contactId,omitempty"`
	Status         string    `json:"status"`
	StartedAt      string    `json:"startedAt,omitempty"`
	UpdatedAt      string    `json:"updatedAt,omitempty"`
	Messages       []Message `json:"messages"`
}

type Message struct {
	MessageID string `json:"messageId,omitempty"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// FromCustomer reports whether a message came from the customer side.
// Only "user" and "customer" senders count; everything else is staff.
func (m Message) FromCustomer() bool {
	return m.Sender == "user" || m.Sender == "customer"
}
