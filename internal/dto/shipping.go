package dto

import "support-desk-backend/internal/model"

type ListShippingRequestsResponse struct {
	Requests []model.ShippingRequest `json:"requests"`
}

type CreateShippingRequestRequest struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Product string `json:"product,omitempty"`
	Note    string `json:"note,omitempty"`
}

type CreateShippingRequestResponse struct {
	Request model.ShippingRequest `json:"request"`
}

type UpdateShipmentStatusRequest struct {
	Status string `json:"status"`
}
