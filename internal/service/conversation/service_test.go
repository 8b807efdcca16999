package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-desk-backend/internal/model"
	"support-desk-backend/internal/store"
)

type fakeBackend struct {
	conversations json.RawMessage
	messages      json.RawMessage
	err           error

	ranges      []string
	statusCalls []string
	emailSent   []map[string]any
}

func (f *fakeBackend) FetchConversations(_ context.Context, fromDate, toDate string) (json.RawMessage, error) {
	f.ranges = append(f.ranges, fromDate+".."+toDate)
	return f.conversations, f.err
}

func (f *fakeBackend) FetchMessages(context.Context, string) (json.RawMessage, error) {
	return f.messages, f.err
}

func (f *fakeBackend) UpdateConversationStatus(_ context.Context, sessionID, status, fromEmail string) error {
	f.statusCalls = append(f.statusCalls, sessionID+":"+status+":"+fromEmail)
	return f.err
}

func (f *fakeBackend) SendEmail(_ context.Context, payload map[string]any) error {
	f.emailSent = append(f.emailSent, payload)
	return f.err
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 15, 10, 15, 30, 0, time.UTC)
}

func TestLoadNormalizesAndSortsNewestFirst(t *testing.T) {
	backend := &fakeBackend{conversations: json.RawMessage(`[
		{"conversation_id":"old","started_at":"2026-01-01T00:00:00Z","status":"open"},
		{"conversation_id":"new","started_at":"2026-02-01T00:00:00Z","status":"open"},
		{"email":"discarded@x.com"}
	]`)}
	st := store.New()
	svc := NewWithClock(backend, st, fixedClock)

	conversations, err := svc.Load(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "new", conversations[0].ConversationID)
	assert.Equal(t, "old", conversations[1].ConversationID)
	assert.Len(t, st.Conversations(), 2)
}

func TestLoadDateRangeReachesBackend(t *testing.T) {
	backend := &fakeBackend{conversations: json.RawMessage(`[]`)}
	svc := NewWithClock(backend, store.New(), fixedClock)

	_, err := svc.Load(context.Background(), "2026-03-01T00:00:00Z", "2026-04-01T00:00:00Z")
	require.NoError(t, err)

	// Empty bounds widen to the defaults instead of being dropped.
	_, err = svc.Load(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, backend.ranges, 2)
	assert.Equal(t, "2026-03-01T00:00:00Z..2026-04-01T00:00:00Z", backend.ranges[0])
	assert.Equal(t, defaultFromDate+"..2026-08-15T10:15:30Z", backend.ranges[1])
}

func TestLoadBackendFailureLeavesStoreAlone(t *testing.T) {
	st := store.New()
	st.ReplaceConversations([]model.Conversation{{ConversationID: "kept"}})
	svc := New(&fakeBackend{err: errors.New("boom")}, st)

	_, err := svc.Load(context.Background(), "", "")
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeInternal, svcErr.Code)
	assert.Len(t, st.Conversations(), 1)
}

func TestMessagesAttachToConversation(t *testing.T) {
	backend := &fakeBackend{messages: json.RawMessage(`[
		{"sender":"agent","message":"hello","timestamp":"2026-01-02T00:00:00Z"},
		{"sender":"user","message":"hi","timestamp":"2026-01-01T00:00:00Z"}
	]`)}
	st := store.New()
	st.ReplaceConversations([]model.Conversation{{ConversationID: "c1"}})
	svc := New(backend, st)

	messages, err := svc.Messages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Body)
	assert.Equal(t, "hello", messages[1].Body)
	assert.Len(t, st.Conversations()[0].Messages, 2)
}

func TestMessagesRequiresID(t *testing.T) {
	svc := New(&fakeBackend{}, store.New())
	_, err := svc.Messages(context.Background(), "  ")
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeValidation, svcErr.Code)
}

func TestUpdateStatusOptimisticWithRevert(t *testing.T) {
	backend := &fakeBackend{}
	st := store.New()
	st.ReplaceConversations([]model.Conversation{{
		ConversationID: "c1",
		SessionID:      "10304515012026",
		Email:          "ada@example.com",
		Status:         "open",
	}})
	svc := New(backend, st)

	require.NoError(t, svc.UpdateStatus(context.Background(), "c1", "Closed"))
	assert.Equal(t, "closed", st.Conversations()[0].Status)
	assert.Equal(t, []string{"10304515012026:closed:ada@example.com"}, backend.statusCalls)

	backend.err = errors.New("backend down")
	err := svc.UpdateStatus(context.Background(), "c1", "open")
	require.Error(t, err)
	assert.Equal(t, "closed", st.Conversations()[0].Status)
}

func TestUpdateStatusFallsBackToThreadID(t *testing.T) {
	// Email threads have no chat session id; the thread id stands in.
	backend := &fakeBackend{}
	st := store.New()
	st.ReplaceConversations([]model.Conversation{{ConversationID: "c1", Email: "ada@example.com", Status: "open"}})
	svc := New(backend, st)

	require.NoError(t, svc.UpdateStatus(context.Background(), "c1", "closed"))
	assert.Equal(t, []string{"c1:closed:ada@example.com"}, backend.statusCalls)
}

func TestUpdateStatusRejectsUnknownStatusAndMissingThread(t *testing.T) {
	svc := New(&fakeBackend{}, store.New())

	err := svc.UpdateStatus(context.Background(), "c1", "archived")
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeValidation, svcErr.Code)

	err = svc.UpdateStatus(context.Background(), "missing", "open")
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeNotFound, svcErr.Code)
}

func TestSendReplyAppendsAgentMessage(t *testing.T) {
	backend := &fakeBackend{}
	st := store.New()
	st.ReplaceConversations([]model.Conversation{{
		ConversationID: "c1",
		Subject:        "Order 1025",
		Messages:       []model.Message{{MessageID: "m-7", Sender: "user", Body: "where is it"}},
	}})
	svc := NewWithClock(backend, st, fixedClock)

	msg, err := svc.SendReply(context.Background(), SendReplyParams{
		ConversationID: "c1",
		To:             "ada@example.com",
		Body:           "On its way",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent", msg.Sender)
	assert.Equal(t, "2026-08-15T10:15:30Z", msg.Timestamp)

	require.Len(t, backend.emailSent, 1)
	sent := backend.emailSent[0]
	assert.Equal(t, "ada@example.com", sent["to-email"])
	assert.Equal(t, defaultFromEmail, sent["from-email"])
	assert.Equal(t, "Order 1025", sent["subject"])
	assert.Equal(t, "c1", sent["thread_id"])
	assert.Equal(t, "m-7", sent["message_id"])
	assert.Equal(t, "On its way", sent["content"])

	assert.Len(t, st.Conversations()[0].Messages, 2)
}

func TestSendReplyValidation(t *testing.T) {
	svc := New(&fakeBackend{}, store.New())

	_, err := svc.SendReply(context.Background(), SendReplyParams{ConversationID: "c1", To: "not-an-email", Body: "x"})
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeValidation, svcErr.Code)

	_, err = svc.SendReply(context.Background(), SendReplyParams{ConversationID: "c1", To: "a@b.com", Body: "  "})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrorCodeValidation, svcErr.Code)
}

func TestNewSessionIDLayout(t *testing.T) {
	svc := NewWithClock(&fakeBackend{}, store.New(), fixedClock)
	assert.Equal(t, "10153015082026", svc.NewSessionID())
}
