package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Webhook paths exposed by the automation backend. The names are fixed on
// the remote side and are not RESTful; do not rename them here.
const (
	pathFetchConversations = "fetchfromDB"
	pathFetchMessages      = "fetchMessages"
	pathFetchOrderByEmail  = "FetchOrderByEmail"
	pathFetchOrderHistory  = "FetchOrderHistory"
	pathShippingLabel      = "ShippingLabel"
	pathLabelHistory       = "LabelHistory"
	pathUpdateStatus       = "UpdateStatus"
	pathSendEmail          = "sendEmail"
	pathShipmentStatus     = "ShipmentStatus"
	pathTickets            = "fetchTickets"
)

// Chat trigger phrases. Several listing flows hang off a chat node on the
// remote side and dispatch on the exact phrase in chatInput.
const (
	triggerOrderHistory     = "Order History"
	triggerShippingRequests = "ShippingRequests"
	triggerFetchTickets     = "FetchTickets"
)

// FetchConversations lists threads started inside the [fromDate, toDate]
// range. The listing endpoint reads the range from a POST body, not the
// query string.
func (c *Client) FetchConversations(ctx context.Context, fromDate, toDate string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathFetchConversations, nil, map[string]any{
		"from_date": fromDate,
		"to_date":   toDate,
	})
}

func (c *Client) FetchMessages(ctx context.Context, conversationID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("conversation_id", conversationID)
	return c.do(ctx, http.MethodGet, pathFetchMessages, q, nil)
}

func (c *Client) FetchOrdersByEmail(ctx context.Context, email string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathFetchOrderByEmail, nil, map[string]any{"email": email})
}

// FetchOrderHistory pulls the full order book. The flow hangs off a chat
// trigger and requires a session id even though the listing is global;
// callers mint a fresh one per fetch.
func (c *Client) FetchOrderHistory(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathFetchOrderHistory, nil, map[string]any{
		"chatInput": triggerOrderHistory,
		"sessionId": sessionID,
	})
}

// CreateShippingLabel submits a label purchase. The order identity travels
// both in the body and in the query string because different workflow nodes
// on the remote side read different halves of the request. The response body
// carries no usable record and is discarded; the created request shows up on
// the next LabelHistory poll.
func (c *Client) CreateShippingLabel(ctx context.Context, payload map[string]any, meta url.Values) error {
	_, err := c.do(ctx, http.MethodPost, pathShippingLabel, meta, payload)
	return err
}

// FetchShippingRequests lists label history through the same chat trigger
// mechanism as the order book.
func (c *Client) FetchShippingRequests(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathLabelHistory, nil, map[string]any{
		"chatInput": triggerShippingRequests,
		"sessionId": sessionID,
	})
}

// UpdateConversationStatus flips a thread open or closed. The remote flow is
// keyed by the chat session id and routes the confirmation by from_email.
func (c *Client) UpdateConversationStatus(ctx context.Context, sessionID, status, fromEmail string) error {
	_, err := c.do(ctx, http.MethodPatch, pathUpdateStatus, nil, map[string]any{
		"session_id": sessionID,
		"status":     status,
		"from_email": fromEmail,
	})
	return err
}

// SendEmail dispatches a staff reply through the outbound email workflow.
func (c *Client) SendEmail(ctx context.Context, payload map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, pathSendEmail, nil, payload)
	return err
}

func (c *Client) UpdateShipmentStatus(ctx context.Context, requestID, status string) error {
	_, err := c.do(ctx, http.MethodPost, pathShipmentStatus, nil, map[string]any{
		"request_id": requestID,
		"status":     status,
	})
	return err
}

func (c *Client) FetchTickets(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathTickets, nil, map[string]any{
		"chatInput": triggerFetchTickets,
	})
}

// CreateTicket posts a new ticket record to the same endpoint that lists
// them; the body shape distinguishes the two operations on the remote side.
func (c *Client) CreateTicket(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, pathTickets, nil, payload)
}
