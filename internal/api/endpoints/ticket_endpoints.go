package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"support-desk-backend/internal/dto"
	ticketsvc "support-desk-backend/internal/service/ticket"
)

type TicketEndpoints interface {
	Tickets(http.ResponseWriter, *http.Request) error
	NextID(http.ResponseWriter, *http.Request) error
}

type ticketEndpoints struct {
	service *ticketsvc.Service
}

func NewTicketEndpoints(service *ticketsvc.Service) TicketEndpoints {
	return &ticketEndpoints{service: service}
}

func (h *ticketEndpoints) Tickets(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:  h.handleList,
		http.MethodPost: h.handleCreate,
	})
}

func (h *ticketEndpoints) NextID(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleNextID,
	})
}

func (h *ticketEndpoints) handleList(w http.ResponseWriter, r *http.Request) error {
	force := r.URL.Query().Get("force") == "true"
	if !force {
		if local := h.service.List(); len(local) > 0 {
			return WriteJSON(w, http.StatusOK, dto.ListTicketsResponse{Tickets: local})
		}
	}

	tickets, err := h.service.Load(r.Context())
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.ListTicketsResponse{Tickets: tickets})
}

func (h *ticketEndpoints) handleNextID(w http.ResponseWriter, r *http.Request) error {
	id, err := h.service.NextID(r.Context())
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.NextTicketIDResponse{NextID: id})
}

func (h *ticketEndpoints) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode ticket request: %w", err),
		}
	}

	ticket, err := h.service.Create(r.Context(), ticketsvc.CreateParams{
		Title:         req.Title,
		Customer:      req.Customer,
		Email:         req.Email,
		Phone:         req.Phone,
		Category:      req.Category,
		Priority:      req.Priority,
		OrderNo:       req.OrderNo,
		ShippingNo:    req.ShippingNo,
		InternalNotes: req.InternalNotes,
		Linked:        req.Linked,
	})
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusCreated, dto.CreateTicketResponse{Ticket: ticket})
}

func (h *ticketEndpoints) serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*ticketsvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("ticket service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case ticketsvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case ticketsvc.ErrorCodeConflict:
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
