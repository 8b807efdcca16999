package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"support-desk-backend/internal/dto"
	"support-desk-backend/internal/model"
	convsvc "support-desk-backend/internal/service/conversation"
)

type ConversationEndpoints interface {
	List(http.ResponseWriter, *http.Request) error
	Messages(http.ResponseWriter, *http.Request) error
	Status(http.ResponseWriter, *http.Request) error
	Reply(http.ResponseWriter, *http.Request) error
}

type conversationEndpoints struct {
	service *convsvc.Service
}

func NewConversationEndpoints(service *convsvc.Service) ConversationEndpoints {
	return &conversationEndpoints{service: service}
}

func (h *conversationEndpoints) List(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleList,
	})
}

func (h *conversationEndpoints) Messages(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleMessages,
	})
}

func (h *conversationEndpoints) Status(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPatch: h.handleStatus,
	})
}

func (h *conversationEndpoints) Reply(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleReply,
	})
}

func (h *conversationEndpoints) handleList(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	from, to := query.Get("from"), query.Get("to")

	conversations, err := h.service.Load(r.Context(), from, to)
	if err != nil {
		return h.serviceError(err)
	}

	// The backend already bounds the range; the local pass narrows by
	// channel and catches records whose timestamps slipped the remote filter.
	filtered := filterConversations(conversations, query.Get("channel"), from, to)

	return WriteJSON(w, http.StatusOK, dto.ListConversationsResponse{Conversations: filtered})
}

// filterConversations narrows a listing by channel type and start-time range.
// Bounds are RFC3339 strings like the timestamps themselves, so a lexical
// compare is enough. Empty parameters leave that dimension unfiltered.
func filterConversations(conversations []model.Conversation, channel, from, to string) []model.Conversation {
	if channel == "" && from == "" && to == "" {
		return conversations
	}
	out := make([]model.Conversation, 0, len(conversations))
	for _, c := range conversations {
		if channel != "" && c.ChannelType != channel {
			continue
		}
		if from != "" && c.StartedAt < from {
			continue
		}
		if to != "" && c.StartedAt > to {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (h *conversationEndpoints) handleMessages(w http.ResponseWriter, r *http.Request) error {
	conversationID := r.URL.Query().Get("conversation_id")

	messages, err := h.service.Messages(r.Context(), conversationID)
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.ListMessagesResponse{
		ConversationID: conversationID,
		Messages:       messages,
	})
}

func (h *conversationEndpoints) handleStatus(w http.ResponseWriter, r *http.Request) error {
	conversationID := r.URL.Query().Get("conversation_id")

	var req dto.UpdateConversationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode status request: %w", err),
		}
	}

	if err := h.service.UpdateStatus(r.Context(), conversationID, req.Status); err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Status updated"})
}

func (h *conversationEndpoints) handleReply(w http.ResponseWriter, r *http.Request) error {
	conversationID := r.URL.Query().Get("conversation_id")

	var req dto.SendReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode reply request: %w", err),
		}
	}

	message, err := h.service.SendReply(r.Context(), convsvc.SendReplyParams{
		ConversationID: conversationID,
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
	})
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.SendReplyResponse{Message: message})
}

func (h *conversationEndpoints) serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*convsvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("conversation service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case convsvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case convsvc.ErrorCodeUnauthorized:
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case convsvc.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case convsvc.ErrorCodeConflict:
		return &HTTPError{
			StatusCode: http.StatusConflict,
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
