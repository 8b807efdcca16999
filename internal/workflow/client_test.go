package workflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   map[string]any
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		BusinessID: "biz-42",
	}), rec
}

func TestFetchConversationsPostsDateRange(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[]`)

	payload, err := client.FetchConversations(context.Background(), "2026-01-01T00:00:00Z", "2026-02-01T00:00:00Z")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(payload))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/fetchfromDB", rec.path)
	assert.Equal(t, "2026-01-01T00:00:00Z", rec.body["from_date"])
	assert.Equal(t, "2026-02-01T00:00:00Z", rec.body["to_date"])
	assert.Equal(t, "biz-42", rec.body["business_id"])
	assert.Equal(t, "test-key", rec.header.Get(APIKeyHeader))
}

func TestFetchMessagesInjectsTenantQuery(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[]`)

	_, err := client.FetchMessages(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/fetchMessages", rec.path)
	assert.Equal(t, "conv-1", rec.query.Get("conversation_id"))
	assert.Equal(t, "biz-42", rec.query.Get("businessid"))
}

func TestExistingTenantQueryNotOverridden(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[]`)

	q := url.Values{}
	q.Set("businessid", "other")
	_, err := client.do(context.Background(), http.MethodGet, pathLabelHistory, q, nil)
	require.NoError(t, err)
	assert.Equal(t, "other", rec.query.Get("businessid"))
}

func TestPostInjectsTenantBody(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	_, err := client.FetchOrdersByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	assert.Equal(t, "ada@example.com", rec.body["email"])
	assert.Equal(t, "biz-42", rec.body["business_id"])
}

func TestCallerTenantBodyNotOverridden(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	_, err := client.CreateTicket(context.Background(), map[string]any{"business_id": "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", rec.body["business_id"])
}

func TestChatTriggerListings(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, `[]`)

	_, err := client.FetchOrderHistory(context.Background(), "10304515012026")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/FetchOrderHistory", rec.path)
	assert.Equal(t, "Order History", rec.body["chatInput"])
	assert.Equal(t, "10304515012026", rec.body["sessionId"])

	_, err = client.FetchShippingRequests(context.Background(), "10304515012026")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/LabelHistory", rec.path)
	assert.Equal(t, "ShippingRequests", rec.body["chatInput"])

	_, err = client.FetchTickets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/fetchTickets", rec.path)
	assert.Equal(t, "FetchTickets", rec.body["chatInput"])
}

func TestCreateShippingLabelSendsQueryMeta(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	meta := url.Values{}
	meta.Set("orderId", "1025")
	meta.Set("Email", "a@b.com")
	meta.Set("date", "2026-01-15T10:30:00Z")
	err := client.CreateShippingLabel(context.Background(), map[string]any{"order_no": "1025"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "/ShippingLabel", rec.path)
	assert.Equal(t, "1025", rec.query.Get("orderId"))
	assert.Equal(t, "a@b.com", rec.query.Get("Email"))
	assert.Equal(t, "2026-01-15T10:30:00Z", rec.query.Get("date"))
	assert.Equal(t, "1025", rec.body["order_no"])
}

func TestUpdateConversationStatusPatch(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	err := client.UpdateConversationStatus(context.Background(), "10304515012026", "closed", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/UpdateStatus", rec.path)
	assert.Equal(t, "10304515012026", rec.body["session_id"])
	assert.Equal(t, "closed", rec.body["status"])
	assert.Equal(t, "ada@example.com", rec.body["from_email"])
}

func TestUpdateShipmentStatusPost(t *testing.T) {
	client, rec := newTestClient(t, http.StatusOK, ``)

	err := client.UpdateShipmentStatus(context.Background(), "req-9", "delivered")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/ShipmentStatus", rec.path)
	assert.Equal(t, "req-9", rec.body["request_id"])
	assert.Equal(t, "delivered", rec.body["status"])
}

func TestEmptyResponseBodyTolerated(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, ``)

	payload, err := client.FetchTickets(context.Background())
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestNon2xxIsError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadGateway, `workflow node failed`)

	_, err := client.FetchConversations(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "workflow node failed")
}
