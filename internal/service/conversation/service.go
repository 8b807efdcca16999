// Package conversation drives the support inbox: listing threads from the
// workflow backend, loading message history, closing and reopening threads,
// and dispatching staff replies over email.
package conversation

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"support-desk-backend/internal/model"
	"support-desk-backend/internal/normalize"
	"support-desk-backend/internal/store"
)

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "validation_error"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeConflict     ErrorCode = "conflict"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Backend is the slice of the workflow client this service depends on.
type Backend interface {
	FetchConversations(ctx context.Context, fromDate, toDate string) (json.RawMessage, error)
	FetchMessages(ctx context.Context, conversationID string) (json.RawMessage, error)
	UpdateConversationStatus(ctx context.Context, sessionID, status, fromEmail string) error
	SendEmail(ctx context.Context, payload map[string]any) error
}

// defaultFromDate bounds an unqualified inbox load. The workflow backend
// filters server-side and returns nothing without a range, so an open lower
// bound predates the first tenant go-live.
const defaultFromDate = "2024-01-01T00:00:00Z"

// defaultFromEmail is the support mailbox replies go out from when a thread
// carries no agent address of its own.
const defaultFromEmail = "support@velit.com"

type SendReplyParams struct {
	ConversationID string
	To             string
	Subject        string
	Body           string
}

type Service struct {
	backend Backend
	store   *store.Store
	now     func() time.Time
}

func New(backend Backend, st *store.Store) *Service {
	return NewWithClock(backend, st, time.Now)
}

func NewWithClock(backend Backend, st *store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		backend: backend,
		store:   st,
		now:     now,
	}
}

// Load fetches the conversation list for the given start-time range,
// normalizes it and replaces the local collection. Empty bounds widen to the
// default lower bound and the current time. Threads sort newest first by
// start time.
func (s *Service) Load(ctx context.Context, fromDate, toDate string) ([]model.Conversation, error) {
	if fromDate == "" {
		fromDate = defaultFromDate
	}
	if toDate == "" {
		toDate = s.now().UTC().Format(time.RFC3339)
	}

	payload, err := s.backend.FetchConversations(ctx, fromDate, toDate)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch conversations", err)
	}

	raws := normalize.Documents(payload)
	conversations := make([]model.Conversation, 0, len(raws))
	for _, raw := range raws {
		if c := normalize.Conversation(raw); c != nil {
			conversations = append(conversations, *c)
		}
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].StartedAt > conversations[j].StartedAt
	})

	s.store.ReplaceConversations(conversations)
	return conversations, nil
}

// List returns the local collection without hitting the backend.
func (s *Service) List() []model.Conversation {
	return s.store.Conversations()
}

// Messages fetches and normalizes the message history of one thread. The
// result is also attached to the locally held conversation so later reads
// see the thread populated.
func (s *Service) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, newError(ErrorCodeValidation, "conversationId is required", nil)
	}

	payload, err := s.backend.FetchMessages(ctx, conversationID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch messages", err)
	}

	messages := normalize.Messages(normalize.Documents(payload))

	s.store.MutateConversations(func(conversations []model.Conversation) []model.Conversation {
		for i := range conversations {
			if conversations[i].ConversationID == conversationID {
				conversations[i].Messages = messages
				break
			}
		}
		return conversations
	})

	return messages, nil
}

// UpdateStatus flips a thread between open and closed. The local copy
// updates immediately; if the backend rejects the change the previous
// status is restored. The backend keys the change by the thread's chat
// session id and wants the customer address for its confirmation mail, so
// both come from the stored conversation rather than the caller.
func (s *Service) UpdateStatus(ctx context.Context, conversationID, status string) error {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return newError(ErrorCodeValidation, "conversationId is required", nil)
	}
	status = model.NormalizeStatus(status)
	if status != string(model.ConversationStatusOpen) && status != string(model.ConversationStatusClosed) {
		return newError(ErrorCodeValidation, "status must be open or closed", nil)
	}

	previous, target, found := s.applyStatus(conversationID, status)
	if !found {
		return newError(ErrorCodeNotFound, "conversation not found", nil)
	}

	sessionID := target.SessionID
	if sessionID == "" {
		// Email threads carry no chat session; the thread id doubles as one.
		sessionID = conversationID
	}
	if err := s.backend.UpdateConversationStatus(ctx, sessionID, status, target.Email); err != nil {
		s.applyStatus(conversationID, previous)
		return newError(ErrorCodeInternal, "failed to update conversation status", err)
	}
	return nil
}

func (s *Service) applyStatus(conversationID, status string) (previous string, target model.Conversation, found bool) {
	s.store.MutateConversations(func(conversations []model.Conversation) []model.Conversation {
		for i := range conversations {
			if conversations[i].ConversationID == conversationID {
				previous = conversations[i].Status
				conversations[i].Status = status
				target = conversations[i]
				found = true
				break
			}
		}
		return conversations
	})
	return previous, target, found
}

// SendReply dispatches a staff reply through the outbound email workflow and
// appends it to the local thread so the inbox shows it right away. The
// outbound payload threads the mail onto the existing exchange: thread_id is
// the conversation id and message_id the last message seen, so the mail
// provider keeps the reply in the same email thread.
func (s *Service) SendReply(ctx context.Context, params SendReplyParams) (model.Message, error) {
	params.ConversationID = strings.TrimSpace(params.ConversationID)
	params.To = strings.TrimSpace(params.To)
	params.Body = strings.TrimSpace(params.Body)

	if params.ConversationID == "" {
		return model.Message{}, newError(ErrorCodeValidation, "conversationId is required", nil)
	}
	if !isValidEmail(params.To) {
		return model.Message{}, newError(ErrorCodeValidation, "a valid recipient email is required", nil)
	}
	if params.Body == "" {
		return model.Message{}, newError(ErrorCodeValidation, "message body is required", nil)
	}

	subject, lastMessageID := s.threadContext(params.ConversationID)
	if params.Subject != "" {
		subject = params.Subject
	}

	payload := map[string]any{
		"to-email":   params.To,
		"from-email": defaultFromEmail,
		"subject":    subject,
		"thread_id":  params.ConversationID,
		"message_id": lastMessageID,
		"content":    params.Body,
	}
	if err := s.backend.SendEmail(ctx, payload); err != nil {
		return model.Message{}, newError(ErrorCodeInternal, "failed to send email", err)
	}

	message := model.Message{
		Sender:    "agent",
		Body:      params.Body,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	s.store.MutateConversations(func(conversations []model.Conversation) []model.Conversation {
		for i := range conversations {
			if conversations[i].ConversationID == params.ConversationID {
				conversations[i].Messages = append(conversations[i].Messages, message)
				break
			}
		}
		return conversations
	})
	return message, nil
}

// threadContext reads the stored subject and last message id of a thread.
func (s *Service) threadContext(conversationID string) (subject, lastMessageID string) {
	for _, c := range s.store.Conversations() {
		if c.ConversationID != conversationID {
			continue
		}
		if n := len(c.Messages); n > 0 {
			lastMessageID = c.Messages[n-1].MessageID
		}
		return c.Subject, lastMessageID
	}
	return "", ""
}

// NewSessionID builds a chat session id in the legacy HHMMSSDDMMYYYY layout
// the workflow backend expects for in-app threads.
func (s *Service) NewSessionID() string {
	return s.now().UTC().Format(model.SessionIDLayout)
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	local, domain := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if local == "" || domain == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	return true
}
