// Package order exposes the order history views backed by the workflow
// webhooks.
package order

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"support-desk-backend/internal/model"
	"support-desk-backend/internal/normalize"
	"support-desk-backend/internal/store"
)

type ErrorCode string

const (
	ErrorCodeValidation ErrorCode = "validation_error"
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

type Backend interface {
	FetchOrderHistory(ctx context.Context, sessionID string) (json.RawMessage, error)
	FetchOrdersByEmail(ctx context.Context, email string) (json.RawMessage, error)
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

// LoadHistory fetches the full order book and replaces the local collection.
// Each pull carries a freshly minted session id.
func (s *Service) LoadHistory(ctx context.Context) ([]model.Order, error) {
	sessionID := s.now().UTC().Format(model.SessionIDLayout)
	payload, err := s.backend.FetchOrderHistory(ctx, sessionID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch order history", err)
	}

	orders := normalize.Orders(normalize.Documents(payload))
	s.store.ReplaceOrders(orders)
	return orders, nil
}

// List returns the local collection without hitting the backend.
func (s *Service) List() []model.Order {
	return s.store.Orders()
}

// ByEmail looks up a customer's orders for the conversation side panel.
// Results are returned directly and never stored; the panel is scoped to
// one thread while the order book is global.
func (s *Service) ByEmail(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, newError(ErrorCodeValidation, "a valid email is required", nil)
	}

	payload, err := s.backend.FetchOrdersByEmail(ctx, email)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to fetch orders", err)
	}
	return normalize.Orders(normalize.Documents(payload)), nil
}
