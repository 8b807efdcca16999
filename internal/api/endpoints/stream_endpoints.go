package endpoints

import (
	"fmt"
	"net/http"

	authsvc "support-desk-backend/internal/service/auth"
	"support-desk-backend/internal/store"
	"support-desk-backend/internal/websocket"
)

type StreamEndpoints interface {
	Stream(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
}

type streamEndpoints struct {
	auth    *authsvc.Service
	handler *websocket.Handler
}

func NewStreamEndpoints(auth *authsvc.Service, handler *websocket.Handler) StreamEndpoints {
	return &streamEndpoints{auth: auth, handler: handler}
}

// Stream upgrades the connection and joins the room for one store
// collection. The dashboard reconnects per collection it renders.
func (h *streamEndpoints) Stream(w http.ResponseWriter, r *http.Request) error {
	if h.handler == nil {
		return &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Websocket not available",
			ErrorLog:   fmt.Errorf("stream websocket handler missing"),
		}
	}

	collection := r.URL.Query().Get("collection")
	if !validCollection(collection) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Unknown collection",
			ErrorLog:   fmt.Errorf("stream websocket unknown collection: %q", collection),
		}
	}

	// Browsers cannot set headers on websocket upgrades, so the token may
	// arrive in the query string instead.
	token := ExtractTokenFromHeaders(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	identity, err := h.auth.IdentityFromToken(token)
	if err != nil {
		return h.serviceError(err)
	}

	h.handler.JoinRoom(w, r, collection, identity.UserID)
	return nil
}

func (h *streamEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) error {
			h.handler.GetRooms(w, r)
			return nil
		},
	})
}

func validCollection(name string) bool {
	for _, c := range store.Collections {
		if string(c) == name {
			return true
		}
	}
	return false
}

func (h *streamEndpoints) serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*authsvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("auth service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case authsvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case authsvc.ErrorCodeUnauthorized:
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	default:
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   errorLog,
		}
	}
}
