package websocket

import (
	"log"

	"support-desk-backend/internal/store"
)

// BindStore creates one room per store collection and forwards every
// change event through redis, so clients connected to any server
// instance hear about refreshes. Returns the unsubscribe function.
func (h *Handler) BindStore(st *store.Store) func() {
	for _, c := range store.Collections {
		h.CreateRoom(string(c))
	}

	return st.Subscribe(func(ev store.Event) {
		if err := Publish(string(ev.Collection), ev); err != nil {
			log.Printf("Error publishing %s refresh: %v", ev.Collection, err)
		}
	})
}
