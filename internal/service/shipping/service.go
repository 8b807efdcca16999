// Package shipping manages label requests. Creating a label is asynchronous
// on the workflow side: the dashboard inserts a pending placeholder at once,
// submits the purchase, and converts the placeholder to an open request after
// a fixed confirmation window unless a fresh fetch has replaced it first.
package shipping

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"support-desk-backend/internal/model"
	"support-desk-backend/internal/normalize"
	"support-desk-backend/internal/store"
)

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "validation_error"
	ErrorCodeNotFound   ErrorCode = "not_found"
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

// DefaultConfirmDelay is how long a freshly submitted request stays pending
// before the dashboard assumes the purchase went through. Matches the
// workflow backend's worst observed label turnaround.
const DefaultConfirmDelay = 40 * time.Second

type Backend interface {
	FetchShippingRequests(ctx context.Context, sessionID string) (json.RawMessage, error)
	CreateShippingLabel(ctx context.Context, payload map[string]any, meta url.Values) error
	UpdateShipmentStatus(ctx context.Context, requestID, status string) error
}

type CreateParams struct {
	OrderID string
	Email   string
	Name    string
	Product string
	Note    string
}

type Service struct {
	backend      Backend
	store        *store.Store
	now          func() time.Time
	confirmDelay time.Duration

	mu     sync.Mutex
	loaded bool
	timers map[string]*time.Timer
}

func New(backend Backend, st *store.Store) *Service {
	return NewWithOptions(backend, st, time.Now, DefaultConfirmDelay)
}

func NewWithOptions(backend Backend, st *store.Store, now func() time.Time, confirmDelay time.Duration) *Service {
	if now == nil {
		now = time.Now
	}
	if confirmDelay <= 0 {
		confirmDelay = DefaultConfirmDelay
	}
	return &Service{
		backend:      backend,
		store:        st,
		now:          now,
		confirmDelay: confirmDelay,
		timers:       make(map[string]*time.Timer),
	}
}

// Close stops all outstanding confirmation timers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Load fetches label history and replaces the local collection. The first
// successful load latches: subsequent calls serve the local copy unless
// force is set, so pending placeholders survive casual refreshes. Each fetch
// carries a freshly minted session id for the backend's chat trigger.
func (s *Service) Load(ctx context.Context, force bool) ([]model.ShippingRequest, error) {
	s.mu.Lock()
	alreadyLoaded := s.loaded
	s.mu.Unlock()
	if alreadyLoaded && !force {
		return s.store.ShippingRequests(), nil
	}

	sessionID := s.now().UTC().Format(model.SessionIDLayout)
	payload, err := s.backend.FetchShippingRequests(ctx, sessionID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch label history", err)
	}

	server := normalize.ShippingRequests(normalize.Documents(payload), s.now().UnixMilli())
	requests := reconcileRequests(server, s.store.ShippingRequests())
	s.store.ReplaceShippingRequests(requests)

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return requests, nil
}

// reconcileWindow bounds how far apart a server record and a local request
// may sit and still be treated as the same submission when only the
// customer identity correlates them.
const reconcileWindow = 10 * time.Minute

// reconcileRequests merges a fresh server listing with the locally-known
// collection. Server records exported under transient ids that correlate
// with a local request are replaced by the local record, so stable ids
// survive refreshes. Pending placeholders the backend has not indexed yet
// are carried over.
func reconcileRequests(server, local []model.ShippingRequest) []model.ShippingRequest {
	out := make([]model.ShippingRequest, 0, len(server))
	seen := make(map[string]bool, len(server))

	for _, sr := range server {
		if model.IsTransientRequestID(sr.ID) {
			if lr, ok := findLocalMatch(local, sr); ok {
				if !seen[lr.ID] {
					out = append(out, lr)
					seen[lr.ID] = true
				}
				continue
			}
		}
		if !seen[sr.ID] {
			out = append(out, sr)
			seen[sr.ID] = true
		}
	}

	for _, lr := range local {
		if model.IsPendingRequestID(lr.ID) && !seen[lr.ID] && !orderCovered(out, lr.OrderID) {
			out = append(out, lr)
			seen[lr.ID] = true
		}
	}
	return out
}

func findLocalMatch(local []model.ShippingRequest, sr model.ShippingRequest) (model.ShippingRequest, bool) {
	for _, lr := range local {
		if model.IsTransientRequestID(lr.ID) && !model.IsPendingRequestID(lr.ID) {
			continue
		}
		if lr.OrderID != "" && lr.OrderID == sr.OrderID {
			return lr, true
		}
		if lr.Email != "" && strings.EqualFold(lr.Email, sr.Email) && strings.EqualFold(lr.Name, sr.Name) {
			delta := sr.CreatedAt - lr.CreatedAt
			if delta < 0 {
				delta = -delta
			}
			if delta <= reconcileWindow.Milliseconds() {
				return lr, true
			}
		}
	}
	return model.ShippingRequest{}, false
}

func orderCovered(requests []model.ShippingRequest, orderID string) bool {
	if orderID == "" {
		return false
	}
	for _, r := range requests {
		if r.OrderID == orderID || r.ID == orderID {
			return true
		}
	}
	return false
}

// List returns the local collection without hitting the backend.
func (s *Service) List() []model.ShippingRequest {
	return s.store.ShippingRequests()
}

// Create submits a label purchase. A pending placeholder lands in the local
// collection before the backend call so the dashboard shows progress
// immediately; if the call fails the placeholder stays visible so the
// operator can see the attempt and retry deliberately. After the
// confirmation window the placeholder flips to an open request keyed by the
// order id, unless a replace invalidated it in the meantime.
func (s *Service) Create(ctx context.Context, params CreateParams) (model.ShippingRequest, error) {
	params.OrderID = strings.TrimSpace(params.OrderID)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Name = strings.TrimSpace(params.Name)

	if params.OrderID == "" {
		return model.ShippingRequest{}, newError(ErrorCodeValidation, "orderId is required", nil)
	}
	if params.Email == "" || !strings.Contains(params.Email, "@") {
		return model.ShippingRequest{}, newError(ErrorCodeValidation, "a valid email is required", nil)
	}

	for _, existing := range s.store.ShippingRequests() {
		if existing.Status == model.ShippingStatusCancelled {
			continue
		}
		if existing.OrderID == params.OrderID || existing.ID == params.OrderID {
			return model.ShippingRequest{}, newError(ErrorCodeConflict, "a label request for this order already exists", nil)
		}
	}

	now := s.now()
	placeholder := model.ShippingRequest{
		ID:           model.PendingRequestID(now),
		OrderID:      params.OrderID,
		Email:        params.Email,
		Name:         params.Name,
		Product:      params.Product,
		Note:         params.Note,
		Status:       model.ShippingStatusPending,
		CreatedAt:    now.UnixMilli(),
		ETAExpiresAt: now.Add(s.confirmDelay).UnixMilli(),
	}
	s.store.MutateShippingRequests(func(requests []model.ShippingRequest) []model.ShippingRequest {
		return append([]model.ShippingRequest{placeholder}, requests...)
	})

	payload := map[string]any{
		"order_no":           params.OrderID,
		"email":              params.Email,
		"name":               params.Name,
		"product_dimensions": params.Product,
		"notes":              params.Note,
	}
	// Query meta duplicates the order identity for the workflow nodes that
	// read the URL instead of the body. Only provided fields are sent.
	meta := url.Values{}
	meta.Set("date", now.UTC().Format(time.RFC3339))
	meta.Set("orderId", params.OrderID)
	meta.Set("Email", params.Email)
	if params.Product != "" {
		meta.Set("product", params.Product)
	}
	if params.Name != "" {
		meta.Set("Name", params.Name)
	}

	if err := s.backend.CreateShippingLabel(ctx, payload, meta); err != nil {
		return placeholder, newError(ErrorCodeInternal, "failed to submit label request", err)
	}

	s.scheduleConfirm(placeholder.ID, params.OrderID)
	return placeholder, nil
}

// scheduleConfirm arms the timer that promotes a placeholder to an open
// request. The generation captured here makes the promotion a no-op if a
// fresh fetch replaced the collection while the timer was pending.
func (s *Service) scheduleConfirm(placeholderID, orderID string) {
	gen := s.store.Generation(store.CollectionShippingRequests)
	timer := time.AfterFunc(s.confirmDelay, func() {
		s.mu.Lock()
		delete(s.timers, placeholderID)
		s.mu.Unlock()

		s.store.MutateShippingRequestsIfGeneration(gen, func(requests []model.ShippingRequest) []model.ShippingRequest {
			for i := range requests {
				if requests[i].ID == placeholderID {
					requests[i].ID = orderID
					requests[i].Status = model.ShippingStatusOpen
					requests[i].ETAExpiresAt = 0
					requests[i].UpdatedAt = s.now().UnixMilli()
					break
				}
			}
			return requests
		})
	})

	s.mu.Lock()
	s.timers[placeholderID] = timer
	s.mu.Unlock()
}

// UpdateStatus moves a request through the fulfilment states. The local copy
// updates immediately and reverts if the backend rejects the change.
func (s *Service) UpdateStatus(ctx context.Context, requestID, status string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return newError(ErrorCodeValidation, "requestId is required", nil)
	}
	if model.IsPendingRequestID(requestID) {
		return newError(ErrorCodeConflict, "request is still pending confirmation", nil)
	}
	status = model.NormalizeStatus(status)
	if !validStatus(status) {
		return newError(ErrorCodeValidation, "unknown shipping status", nil)
	}

	previous, found := s.applyStatus(requestID, status)
	if !found {
		return newError(ErrorCodeNotFound, "label request not found", nil)
	}

	if err := s.backend.UpdateShipmentStatus(ctx, requestID, status); err != nil {
		s.applyStatus(requestID, previous)
		return newError(ErrorCodeInternal, "failed to update shipment status", err)
	}
	return nil
}

func (s *Service) applyStatus(requestID, status string) (previous string, found bool) {
	now := s.now().UnixMilli()
	s.store.MutateShippingRequests(func(requests []model.ShippingRequest) []model.ShippingRequest {
		for i := range requests {
			if requests[i].ID == requestID {
				previous = requests[i].Status
				requests[i].Status = status
				requests[i].UpdatedAt = now
				found = true
				break
			}
		}
		return requests
	})
	return previous, found
}

func validStatus(status string) bool {
	for _, s := range model.ShippingRequestStatuses {
		if s == status {
			return true
		}
	}
	return false
}
