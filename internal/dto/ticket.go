package dto

import "support-desk-backend/internal/model"

type ListTicketsResponse struct {
	Tickets []model.Ticket `json:"tickets"`
}

type NextTicketIDResponse struct {
	NextID string `json:"nextId"`
}

type CreateTicketRequest struct {
	Title         string            `json:"title,omitempty"`
	Customer      string            `json:"customer"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone,omitempty"`
	Category      string            `json:"category,omitempty"`
	Priority      string            `json:"priority,omitempty"`
	OrderNo       string            `json:"orderNo,omitempty"`
	ShippingNo    string            `json:"shippingNo,omitempty"`
	InternalNotes string            `json:"internalNotes,omitempty"`
	Linked        model.TicketLinks `json:"linked,omitempty"`
}

type CreateTicketResponse struct {
	Ticket model.Ticket `json:"ticket"`
}
