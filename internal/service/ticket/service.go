// Package ticket manages support tickets. Ticket ids are minted locally in
// the strict VEL-NNNNNN sequence because the workflow backend indexes new
// tickets with a long lag; freshly created tickets are held in a bounded
// Redis cache and merged into listings until the backend catches up.
package ticket

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
	ErrorCodeValidation ErrorCode = "validation_error"
	ErrorCodeConflict   ErrorCode = "conflict"
	ErrorCodeInternal   ErrorCode = "internal_error"
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

// duplicateWindow is how close together two submissions with the same
// customer and order must be to count as an accidental double click.
const duplicateWindow = 5 * time.Minute

type Backend interface {
	FetchTickets(ctx context.Context) (json.RawMessage, error)
	CreateTicket(ctx context.Context, payload map[string]any) (json.RawMessage, error)
}

// RecentCache holds tickets created locally that the authoritative listing
// does not show yet. Implemented by ticketcache on Redis.
type RecentCache interface {
	Put(ctx context.Context, t model.Ticket) error
	List(ctx context.Context) ([]model.Ticket, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type CreateParams struct {
	Title         string
	Customer      string
	Email         string
	Phone         string
	Category      string
	Priority      string
	OrderNo       string
	ShippingNo    string
	InternalNotes string
	Linked        model.TicketLinks
}

type Service struct {
	backend Backend
	cache   RecentCache
	store   *store.Store
	now     func() time.Time
}

func New(backend Backend, cache RecentCache, st *store.Store) *Service {
	return NewWithClock(backend, cache, st, time.Now)
}

func NewWithClock(backend Backend, cache RecentCache, st *store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		backend: backend,
		cache:   cache,
		store:   st,
		now:     now,
	}
}

// Load fetches the authoritative ticket list and reconciles it with the
// recent-ticket cache. Locally minted ids are the source of truth: a cached
// ticket is evicted only when the server lists its exact id, and server
// records exported under a non-strict id that describe a cached ticket are
// dropped until the backend re-keys them under the VEL id. An empty
// authoritative list clears the cache outright, since it means the tenant's
// collection was reset.
func (s *Service) Load(ctx context.Context) ([]model.Ticket, error) {
	payload, err := s.backend.FetchTickets(ctx)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch tickets", err)
	}

	server := normalize.Tickets(normalize.Documents(payload))

	if len(server) == 0 {
		if err := s.cache.Clear(ctx); err != nil {
			return nil, newError(ErrorCodeInternal, "failed to clear ticket cache", err)
		}
		s.store.ReplaceTickets(server)
		return server, nil
	}

	cached, err := s.cache.List(ctx)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to read ticket cache", err)
	}

	serverIDs := make(map[string]bool, len(server))
	for _, t := range server {
		serverIDs[t.ID] = true
	}

	merged := make([]model.Ticket, 0, len(server)+len(cached))
	for _, local := range cached {
		if serverIDs[local.ID] {
			// Backend caught up with this ticket under its minted id.
			_ = s.cache.Remove(ctx, local.ID)
			continue
		}
		merged = append(merged, local)
	}

	for _, t := range server {
		if model.IsTicketID(t.ID) || !hasLocalEquivalent(cached, t) {
			merged = append(merged, t)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})

	s.store.ReplaceTickets(merged)
	return merged, nil
}

// hasLocalEquivalent reports whether a server record describes one of the
// cached tickets: same email plus a matching order number, tracking number,
// or customer name.
func hasLocalEquivalent(cached []model.Ticket, t model.Ticket) bool {
	email := trimLower(t.Email)
	if email == "" {
		return false
	}
	for _, local := range cached {
		if trimLower(local.Email) != email {
			continue
		}
		if local.OrderNo != "" && local.OrderNo == t.OrderNo {
			return true
		}
		if local.ShippingNo != "" && local.ShippingNo == t.ShippingNo {
			return true
		}
		if local.Customer != "" && trimLower(local.Customer) == trimLower(t.Customer) {
			return true
		}
	}
	return false
}

// List returns the local collection without hitting the backend.
func (s *Service) List() []model.Ticket {
	return s.store.Tickets()
}

// NextID mints the next ticket id over everything currently visible,
// including cached tickets the backend has not indexed yet.
func (s *Service) NextID(ctx context.Context) (string, error) {
	cached, err := s.cache.List(ctx)
	if err != nil {
		return "", newError(ErrorCodeInternal, "failed to read ticket cache", err)
	}
	all := append(s.store.Tickets(), cached...)
	return model.NextTicketID(all), nil
}

// Create mints an id, stores the ticket locally and in the recent cache,
// then submits it to the workflow backend. A submission matching another
// ticket for the same customer and order inside the duplicate window is
// rejected as a double click. If the backend rejects the ticket the local
// copies are rolled back.
func (s *Service) Create(ctx context.Context, params CreateParams) (model.Ticket, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Customer = strings.TrimSpace(params.Customer)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if params.Customer == "" {
		return model.Ticket{}, newError(ErrorCodeValidation, "customer name is required", nil)
	}
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return model.Ticket{}, newError(ErrorCodeValidation, "a valid email is required", nil)
	}

	now := s.now()
	nowMillis := now.UnixMilli()

	if dup := s.findRecentDuplicate(ctx, params, nowMillis); dup != "" {
		return model.Ticket{}, newError(ErrorCodeConflict, "an identical ticket was created moments ago: "+dup, nil)
	}

	id, err := s.NextID(ctx)
	if err != nil {
		return model.Ticket{}, err
	}

	priority := model.NormalizeStatus(params.Priority)
	if priority == "" {
		priority = "normal"
	}

	ticket := model.Ticket{
		ID:            id,
		Status:        "open",
		Priority:      priority,
		Title:         params.Title,
		Customer:      params.Customer,
		Email:         params.Email,
		Phone:         strings.TrimSpace(params.Phone),
		Category:      strings.TrimSpace(params.Category),
		SourceChannel: "dashboard",
		InternalNotes: params.InternalNotes,
		OrderNo:       strings.TrimSpace(params.OrderNo),
		ShippingNo:    strings.TrimSpace(params.ShippingNo),
		CreatedAt:     nowMillis,
		UpdatedAt:     nowMillis,
		Linked:        params.Linked,
	}

	s.store.MutateTickets(func(tickets []model.Ticket) []model.Ticket {
		return append([]model.Ticket{ticket}, tickets...)
	})
	if err := s.cache.Put(ctx, ticket); err != nil {
		s.removeLocal(ctx, ticket.ID, false)
		return model.Ticket{}, newError(ErrorCodeInternal, "failed to cache ticket", err)
	}

	payload := map[string]any{
		"Ticket_id":   ticket.ID,
		"Name":        ticket.Customer,
		"Email":       ticket.Email,
		"Order_no":    ticket.OrderNo,
		"Shipping_no": ticket.ShippingNo,
		"title":       ticket.Title,
		"priority":    ticket.Priority,
		"category":    ticket.Category,
		"notes":       ticket.InternalNotes,
		"timestamp":   now.UTC().Format(time.RFC3339),
	}
	resp, err := s.backend.CreateTicket(ctx, payload)
	if err != nil {
		s.removeLocal(ctx, ticket.ID, true)
		return model.Ticket{}, newError(ErrorCodeInternal, "failed to submit ticket", err)
	}

	if echoed, ok := s.adoptEcho(ctx, resp, ticket); ok {
		ticket = echoed
	}
	return ticket, nil
}

// adoptEcho folds the backend's create response into the local record. A
// record echoed under a strict id replaces the minted one; pseudo ids the
// backend hands out before its workflow assigns the real id are ignored and
// the minted id stays. Pseudo-id duplicates of the fresh ticket already in
// the local collection are dropped at the same time.
func (s *Service) adoptEcho(ctx context.Context, resp json.RawMessage, minted model.Ticket) (model.Ticket, bool) {
	if len(resp) == 0 {
		return model.Ticket{}, false
	}
	records := normalize.Tickets(normalize.Documents(resp))
	if len(records) == 0 {
		return model.Ticket{}, false
	}

	echoed := records[0]
	if model.IsPseudoTicketID(echoed.ID) || !model.IsTicketID(echoed.ID) {
		echoed.ID = minted.ID
	}
	if echoed.Customer == "" {
		echoed.Customer = minted.Customer
	}
	if echoed.Email == "" {
		echoed.Email = minted.Email
	}
	if echoed.OrderNo == "" {
		echoed.OrderNo = minted.OrderNo
	}
	if echoed.ShippingNo == "" {
		echoed.ShippingNo = minted.ShippingNo
	}
	if echoed.Title == "" {
		echoed.Title = minted.Title
	}
	if echoed.SourceChannel == "" {
		echoed.SourceChannel = minted.SourceChannel
	}
	if echoed.CreatedAt == 0 {
		echoed.CreatedAt = minted.CreatedAt
	}
	if echoed.UpdatedAt == 0 {
		echoed.UpdatedAt = echoed.CreatedAt
	}
	echoed.Linked = minted.Linked

	s.store.MutateTickets(func(tickets []model.Ticket) []model.Ticket {
		out := make([]model.Ticket, 0, len(tickets))
		out = append(out, echoed)
		for _, t := range tickets {
			if t.ID == minted.ID || t.ID == echoed.ID {
				continue
			}
			if model.IsPseudoTicketID(t.ID) && echoDuplicate(t, echoed) {
				continue
			}
			out = append(out, t)
		}
		return out
	})

	if echoed.ID != minted.ID {
		_ = s.cache.Remove(ctx, minted.ID)
		_ = s.cache.Put(ctx, echoed)
	}
	return echoed, true
}

// echoDuplicate matches a lingering pseudo-id record against the ticket the
// backend just confirmed: same email, created inside the duplicate window,
// and a correlating order, tracking number or customer name.
func echoDuplicate(t, echoed model.Ticket) bool {
	if trimLower(echoed.Email) == "" || trimLower(t.Email) != trimLower(echoed.Email) {
		return false
	}
	delta := t.CreatedAt - echoed.CreatedAt
	if delta < 0 {
		delta = -delta
	}
	if delta >= duplicateWindow.Milliseconds() {
		return false
	}
	if echoed.OrderNo != "" && t.OrderNo == echoed.OrderNo {
		return true
	}
	if echoed.ShippingNo != "" && t.ShippingNo == echoed.ShippingNo {
		return true
	}
	return echoed.Customer != "" && trimLower(t.Customer) == trimLower(echoed.Customer)
}

func (s *Service) findRecentDuplicate(ctx context.Context, params CreateParams, nowMillis int64) string {
	candidates := s.store.Tickets()
	if cached, err := s.cache.List(ctx); err == nil {
		candidates = append(candidates, cached...)
	}
	for _, t := range candidates {
		if trimLower(t.Email) != params.Email {
			continue
		}
		if t.OrderNo != strings.TrimSpace(params.OrderNo) {
			continue
		}
		if nowMillis-t.CreatedAt < duplicateWindow.Milliseconds() {
			return t.ID
		}
	}
	return ""
}

func (s *Service) removeLocal(ctx context.Context, id string, fromCache bool) {
	s.store.MutateTickets(func(tickets []model.Ticket) []model.Ticket {
		out := tickets[:0]
		for _, t := range tickets {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	if fromCache {
		_ = s.cache.Remove(ctx, id)
	}
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
