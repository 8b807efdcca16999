package dto

import "support-desk-backend/internal/model"

type ListOrdersResponse struct {
	Orders []model.Order `json:"orders"`
}
