package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"support-desk-backend/internal/dto"
	shippingsvc "support-desk-backend/internal/service/shipping"
)

type ShippingEndpoints interface {
	Requests(http.ResponseWriter, *http.Request) error
	Status(http.ResponseWriter, *http.Request) error
}

type shippingEndpoints struct {
	service *shippingsvc.Service
}

func NewShippingEndpoints(service *shippingsvc.Service) ShippingEndpoints {
	return &shippingEndpoints{service: service}
}

func (h *shippingEndpoints) Requests(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet:  h.handleList,
		http.MethodPost: h.handleCreate,
	})
}

func (h *shippingEndpoints) Status(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPatch: h.handleStatus,
	})
}

func (h *shippingEndpoints) handleList(w http.ResponseWriter, r *http.Request) error {
	force := r.URL.Query().Get("force") == "true"

	requests, err := h.service.Load(r.Context(), force)
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, dto.ListShippingRequestsResponse{Requests: requests})
}

func (h *shippingEndpoints) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreateShippingRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode shipping request: %w", err),
		}
	}

	created, err := h.service.Create(r.Context(), shippingsvc.CreateParams{
		OrderID: req.OrderID,
		Email:   req.Email,
		Name:    req.Name,
		Product: req.Product,
		Note:    req.Note,
	})
	if err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusAccepted, dto.CreateShippingRequestResponse{Request: created})
}

func (h *shippingEndpoints) handleStatus(w http.ResponseWriter, r *http.Request) error {
	requestID := r.URL.Query().Get("request_id")

	var req dto.UpdateShipmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode shipment status request: %w", err),
		}
	}

	if err := h.service.UpdateStatus(r.Context(), requestID, req.Status); err != nil {
		return h.serviceError(err)
	}
	return WriteJSON(w, http.StatusOK, ApiMessageResponse{Message: "Status updated"})
}

func (h *shippingEndpoints) serviceError(err error) error {
	if err == nil {
		return nil
	}

	svcErr, ok := err.(*shippingsvc.Error)
	if !ok {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("shipping service: %w", err),
		}
	}

	var errorLog error
	if svcErr.Err != nil {
		errorLog = fmt.Errorf("%s: %w", svcErr.Message, svcErr.Err)
	} else {
		errorLog = svcErr
	}

	switch svcErr.Code {
	case shippingsvc.ErrorCodeValidation:
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case shippingsvc.ErrorCodeNotFound:
		return &HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    svcErr.Message,
			ErrorLog:   errorLog,
		}
	case shippingsvc.ErrorCodeConflict:
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
