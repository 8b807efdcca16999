package endpoints

import (
	"fmt"
	"net/http"

	"support-desk-backend/internal/dto"
	ordersvc "support-desk-backend/internal/service/order"
)

type OrderEndpoints interface {
	History(http.ResponseWriter, *http.Request) error
	Lookup(http.ResponseWriter, *http.Request) error
}

type orderEndpoints struct {
	service *ordersvc.Service
}

func NewOrderEndpoints(service *ordersvc.Service) OrderEndpoints {
	return &orderEndpoints{service: service}
}

func (h *orderEndpoints) History(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleHistory,
	})
}

func (h *orderEndpoints) Lookup(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleLookup,
	})
}

func (h *orderEndpoints) handleHistory(w http.ResponseWriter, r *http.Request) error {
	orders, err := h.service.LoadHistory(r.Context())
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.ListOrdersResponse{Orders: orders})
}

func (h *orderEndpoints) handleLookup(w http.ResponseWriter, r *http.Request) error {
	email := r.URL.Query().Get("email")

	orders, err := h.service.ByEmail(r.Context(), email)
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.ListOrdersResponse{Orders: orders})
}

func (h *orderEndpoints) serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*ordersvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("order service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case ordersvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
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
