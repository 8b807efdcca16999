// Package store holds the dashboard's in-memory working set. It is the only
// mutable state the server keeps: optimistic writes land here immediately and
// background fetches replace whole collections when the workflow backend
// answers. Subscribers get a change event per update so the websocket layer
// can push refreshes without polling.
package store

import (
	"sync"

	"support-desk-backend/internal/model"
)

type Collection string

const (
	CollectionConversations    Collection = "conversations"
	CollectionOrders           Collection = "orders"
	CollectionShippingRequests Collection = "shipping_requests"
	CollectionTickets          Collection = "tickets"
)

// Collections lists every collection the store tracks, in a fixed order.
var Collections = []Collection{
	CollectionConversations,
	CollectionOrders,
	CollectionShippingRequests,
	CollectionTickets,
}

// Event describes one collection update. Generation is the replace counter
// at the time of the event; subscribers can use it to drop stale refreshes.
type Event struct {
	Collection Collection `json:"collection"`
	Generation uint64     `json:"generation"`
}

type Subscriber func(Event)

// Store is safe for concurrent use. Every Replace bumps the collection's
// generation counter; optimistic mutations do not. Delayed reconciliation
// work scheduled against the store captures the generation it saw and uses
// MutateIfGeneration, so a fresh server fetch arriving in between silently
// cancels it.
type Store struct {
	mu sync.RWMutex

	conversations []model.Conversation
	orders        []model.Order
	shipping      []model.ShippingRequest
	tickets       []model.Ticket

	generations map[Collection]uint64

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

func New() *Store {
	return &Store{
		generations: make(map[Collection]uint64, len(Collections)),
		subs:        make(map[int]Subscriber),
	}
}

// Subscribe registers fn for every future change event and returns the
// function that removes the registration. Events are delivered synchronously
// on the mutating goroutine, after the store lock is released.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) Generation(c Collection) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[c]
}

func (s *Store) notify(c Collection, gen uint64) {
	s.subMu.Lock()
	listeners := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()
	ev := Event{Collection: c, Generation: gen}
	for _, fn := range listeners {
		fn(ev)
	}
}

func (s *Store) Conversations() []model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

func (s *Store) ReplaceConversations(items []model.Conversation) {
	s.mu.Lock()
	s.conversations = items
	s.generations[CollectionConversations]++
	gen := s.generations[CollectionConversations]
	s.mu.Unlock()
	s.notify(CollectionConversations, gen)
}

// MutateConversations applies an optimistic edit in place. The callback gets
// the live slice and returns its replacement; it must not retain either.
func (s *Store) MutateConversations(fn func([]model.Conversation) []model.Conversation) {
	s.mu.Lock()
	s.conversations = fn(s.conversations)
	gen := s.generations[CollectionConversations]
	s.mu.Unlock()
	s.notify(CollectionConversations, gen)
}

func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) ReplaceOrders(items []model.Order) {
	s.mu.Lock()
	s.orders = items
	s.generations[CollectionOrders]++
	gen := s.generations[CollectionOrders]
	s.mu.Unlock()
	s.notify(CollectionOrders, gen)
}

func (s *Store) MutateOrders(fn func([]model.Order) []model.Order) {
	s.mu.Lock()
	s.orders = fn(s.orders)
	gen := s.generations[CollectionOrders]
	s.mu.Unlock()
	s.notify(CollectionOrders, gen)
}

func (s *Store) ShippingRequests() []model.ShippingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ShippingRequest, len(s.shipping))
	copy(out, s.shipping)
	return out
}

func (s *Store) ReplaceShippingRequests(items []model.ShippingRequest) {
	s.mu.Lock()
	s.shipping = items
	s.generations[CollectionShippingRequests]++
	gen := s.generations[CollectionShippingRequests]
	s.mu.Unlock()
	s.notify(CollectionShippingRequests, gen)
}

func (s *Store) MutateShippingRequests(fn func([]model.ShippingRequest) []model.ShippingRequest) {
	s.mu.Lock()
	s.shipping = fn(s.shipping)
	gen := s.generations[CollectionShippingRequests]
	s.mu.Unlock()
	s.notify(CollectionShippingRequests, gen)
}

// MutateShippingRequestsIfGeneration applies fn only when the collection has
// not been replaced since gen was observed. Returns whether fn ran.
func (s *Store) MutateShippingRequestsIfGeneration(gen uint64, fn func([]model.ShippingRequest) []model.ShippingRequest) bool {
	s.mu.Lock()
	if s.generations[CollectionShippingRequests] != gen {
		s.mu.Unlock()
		return false
	}
	s.shipping = fn(s.shipping)
	s.mu.Unlock()
	s.notify(CollectionShippingRequests, gen)
	return true
}

func (s *Store) Tickets() []model.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

func (s *Store) ReplaceTickets(items []model.Ticket) {
	s.mu.Lock()
	s.tickets = items
	s.generations[CollectionTickets]++
	gen := s.generations[CollectionTickets]
	s.mu.Unlock()
	s.notify(CollectionTickets, gen)
}

func (s *Store) MutateTickets(fn func([]model.Ticket) []model.Ticket) {
	s.mu.Lock()
	s.tickets = fn(s.tickets)
	gen := s.generations[CollectionTickets]
	s.mu.Unlock()
	s.notify(CollectionTickets, gen)
}
