package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/dto"
	"support-desk-backend/internal/model"
	"support-desk-backend/internal/queue"
	ticketsvc "support-desk-backend/internal/service/ticket"
	"support-desk-backend/internal/store"
)

type fakeTicketBackend struct {
	mu        sync.Mutex
	listing   json.RawMessage
	createErr error
	created   []map[string]any
}

func (f *fakeTicketBackend) FetchTickets(ctx context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listing == nil {
		return json.RawMessage(`[]`), nil
	}
	return f.listing, nil
}

func (f *fakeTicketBackend) CreateTicket(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	return json.RawMessage(`{}`), nil
}

type memTicketCache struct {
	mu      sync.Mutex
	tickets map[string]model.Ticket
}

func newMemTicketCache() *memTicketCache {
	return &memTicketCache{tickets: make(map[string]model.Ticket)}
}

func (c *memTicketCache) Put(ctx context.Context, t model.Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets[t.ID] = t
	return nil
}

func (c *memTicketCache) List(ctx context.Context) ([]model.Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Ticket, 0, len(c.tickets))
	for _, t := range c.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (c *memTicketCache) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tickets, id)
	return nil
}

func (c *memTicketCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets = make(map[string]model.Ticket)
	return nil
}

func setupTicketHandler(t *testing.T, svc *ticketsvc.Service) (http.Handler, func()) {
	t.Helper()

	te := &ticketEndpoints{service: svc}

	queueManager := queue.NewRequestQueueManager(10, 1)
	server := api.NewAPIServer(":0", queueManager, api.Services{Tickets: svc}, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tickets", server.MakeHTTPHandleFunc(te.Tickets))
	mux.HandleFunc("/api/v1/tickets/next-id", server.MakeHTTPHandleFunc(te.NextID))

	return mux, func() {
		queueManager.Shutdown()
	}
}

func ticketTestClock() func() time.Time {
	base := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	return func() time.Time { return base }
}

func TestTicketCreateMintsNextID(t *testing.T) {
	backend := &fakeTicketBackend{
		listing: json.RawMessage(`[{"Ticket_id":"VEL-000007","Name":"Maja Larsen","Email":"maja@example.com","status":"open"}]`),
	}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	doJSONRequest[dto.ListTicketsResponse](t, handler, http.MethodGet, "/api/v1/tickets", nil, nil, http.StatusOK)

	createPayload := map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "jonas@example.com",
		"orderNo":  "1044",
	}

	resp := doJSONRequest[dto.CreateTicketResponse](t, handler, http.MethodPost, "/api/v1/tickets", createPayload, nil, http.StatusCreated)

	if resp.Ticket.ID != "VEL-000008" {
		t.Fatalf("expected VEL-000008, got %s", resp.Ticket.ID)
	}
	if resp.Ticket.Status != "open" {
		t.Fatalf("expected status open, got %s", resp.Ticket.Status)
	}
	if resp.Ticket.Priority != "normal" {
		t.Fatalf("expected default priority normal, got %s", resp.Ticket.Priority)
	}

	if len(backend.created) != 1 {
		t.Fatalf("expected one backend submission, got %d", len(backend.created))
	}
	if backend.created[0]["Ticket_id"] != "VEL-000008" {
		t.Fatalf("backend payload carries wrong id: %v", backend.created[0]["Ticket_id"])
	}
}

func TestTicketCreateRejectsDoubleSubmit(t *testing.T) {
	backend := &fakeTicketBackend{}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	payload := map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "jonas@example.com",
		"orderNo":  "1044",
	}

	doJSONRequest[dto.CreateTicketResponse](t, handler, http.MethodPost, "/api/v1/tickets", payload, nil, http.StatusCreated)
	doJSONRequest[api.ApiError](t, handler, http.MethodPost, "/api/v1/tickets", payload, nil, http.StatusConflict)
}

func TestTicketCreateValidatesInput(t *testing.T) {
	backend := &fakeTicketBackend{}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	payload := map[string]interface{}{
		"email": "jonas@example.com",
	}

	doJSONRequest[api.ApiError](t, handler, http.MethodPost, "/api/v1/tickets", payload, nil, http.StatusBadRequest)

	payload = map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "not-an-email",
	}

	doJSONRequest[api.ApiError](t, handler, http.MethodPost, "/api/v1/tickets", payload, nil, http.StatusBadRequest)
}

func TestTicketListingMergesRecentlyCreated(t *testing.T) {
	backend := &fakeTicketBackend{
		listing: json.RawMessage(`[{"Ticket_id":"VEL-000010","Name":"Maja Larsen","Email":"maja@example.com"}]`),
	}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	doJSONRequest[dto.ListTicketsResponse](t, handler, http.MethodGet, "/api/v1/tickets", nil, nil, http.StatusOK)

	createPayload := map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "jonas@example.com",
	}
	created := doJSONRequest[dto.CreateTicketResponse](t, handler, http.MethodPost, "/api/v1/tickets", createPayload, nil, http.StatusCreated)

	listing := doJSONRequest[dto.ListTicketsResponse](t, handler, http.MethodGet, "/api/v1/tickets", nil, nil, http.StatusOK)

	found := false
	for _, ticket := range listing.Tickets {
		if ticket.ID == created.Ticket.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected listing to include %s until the backend indexes it", created.Ticket.ID)
	}
}

func TestTicketNextIDCountsCachedTickets(t *testing.T) {
	backend := &fakeTicketBackend{}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	first := doJSONRequest[dto.NextTicketIDResponse](t, handler, http.MethodGet, "/api/v1/tickets/next-id", nil, nil, http.StatusOK)
	if first.NextID != "VEL-000001" {
		t.Fatalf("expected VEL-000001 on empty collection, got %s", first.NextID)
	}

	createPayload := map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "jonas@example.com",
	}
	doJSONRequest[dto.CreateTicketResponse](t, handler, http.MethodPost, "/api/v1/tickets", createPayload, nil, http.StatusCreated)

	second := doJSONRequest[dto.NextTicketIDResponse](t, handler, http.MethodGet, "/api/v1/tickets/next-id", nil, nil, http.StatusOK)
	if second.NextID != "VEL-000002" {
		t.Fatalf("expected VEL-000002 after local create, got %s", second.NextID)
	}
}

func TestTicketCreateRollsBackOnBackendFailure(t *testing.T) {
	backend := &fakeTicketBackend{createErr: fmt.Errorf("workflow rejected")}
	svc := ticketsvc.NewWithClock(backend, newMemTicketCache(), store.New(), ticketTestClock())

	handler, cleanup := setupTicketHandler(t, svc)
	defer cleanup()

	payload := map[string]interface{}{
		"customer": "Jonas Berg",
		"email":    "jonas@example.com",
	}

	doJSONRequest[api.ApiError](t, handler, http.MethodPost, "/api/v1/tickets", payload, nil, http.StatusInternalServerError)

	next := doJSONRequest[dto.NextTicketIDResponse](t, handler, http.MethodGet, "/api/v1/tickets/next-id", nil, nil, http.StatusOK)
	if next.NextID != "VEL-000001" {
		t.Fatalf("expected rollback to free the minted id, got %s", next.NextID)
	}
}
