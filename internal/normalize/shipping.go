package normalize

import (
	"github.com/google/uuid"

	"support-desk-backend/internal/model"
)

// ShippingRequest normalizes a raw label-request record. Identity prefers an
// explicit request id, then a tracking number, then the order id; as a last
// resort a synthetic REQ- id keeps the record addressable in the store.
// nowMillis fills createdAt when the backend omits every timestamp.
func ShippingRequest(raw map[string]any, nowMillis int64) *model.ShippingRequest {
	flat := Flatten(raw)
	id := firstString(flat, "id", "request_id", "requestId", keyDocumentID,
		"tracking_id", "tracking_number", "trackingNumber",
		"order_no", "order_number", "orderNo")
	if id == "" {
		id = "REQ-" + uuid.NewString()[:8]
	}
	created := firstMillis(flat, "createdAt", "created_at", "timestamp")
	if created == 0 {
		if ms := EpochMillis(flat[keyCreateTime]); ms != 0 {
			created = ms
		} else {
			created = nowMillis
		}
	}
	status := model.NormalizeStatus(firstString(flat, "status", "Status"))
	if status == "" {
		status = model.ShippingStatusOpen
	}
	return &model.ShippingRequest{
		ID:             id,
		OrderID:        firstString(flat, "order_no", "order_number", "orderNo", "orderId"),
		Email:          firstString(flat, "email", "user_email", "Email"),
		Name:           firstString(flat, "name", "customer_name", "Name", "Shipping Name"),
		Product:        firstString(flat, "product", "Product", "product_dimensions"),
		Status:         status,
		TrackingNumber: firstString(flat, "tracking_number", "trackingNumber", "tracking_id"),
		LabelURL:       firstString(flat, "url", "label_url", "labelUrl"),
		Note:           firstString(flat, "note", "Note", "notes"),
		CreatedAt:      created,
		UpdatedAt:      firstMillis(flat, "updatedAt", "updated_at", keyUpdateTime),
	}
}

// ShippingRequests normalizes a raw record list.
func ShippingRequests(raws []map[string]any, nowMillis int64) []model.ShippingRequest {
	out := make([]model.ShippingRequest, 0, len(raws))
	for _, raw := range raws {
		if r := ShippingRequest(raw, nowMillis); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
