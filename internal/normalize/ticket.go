package normalize

import "support-desk-backend/internal/model"

// Ticket normalizes a raw ticket record. The workflow backend stores tickets
// in Firestore with capitalized field names (Ticket_id, Name, Order_no); the
// dashboard's own optimistic records use camelCase. Both resolve through the
// same chains. Returns nil when no id survives.
func Ticket(raw map[string]any) *model.Ticket {
	flat := Flatten(raw)
	id := firstString(flat, "id", "ticketId", "TicketId", "Ticket_id", "ticket_id", "number", keyDocumentID)
	if id == "" {
		return nil
	}
	status := model.NormalizeStatus(firstString(flat, "status", "Status"))
	if status == "" {
		status = "open"
	}
	priority := model.NormalizeStatus(firstString(flat, "priority", "Priority"))
	if priority == "" {
		priority = "normal"
	}
	created := firstMillis(flat, "createdAt", "created_at", "timestamp", keyCreateTime)
	t := &model.Ticket{
		ID:            id,
		Status:        status,
		Priority:      priority,
		Title:         firstString(flat, "title", "subject", "Subject"),
		Customer:      firstString(flat, "customer", "name", "Name", "Customer"),
		Email:         firstString(flat, "email", "Email", "user_email"),
		Phone:         firstString(flat, "phone", "Phone"),
		Category:      firstString(flat, "category", "Category"),
		SourceChannel: firstString(flat, "sourceChannel", "source_channel", "channel"),
		InternalNotes: firstString(flat, "internalNotes", "internal_notes", "notes"),
		OrderNo:       firstString(flat, "orderNo", "Order_no", "order_no", "order"),
		ShippingNo:    firstString(flat, "shippingNo", "Shipping_no", "shipping_no", "trackingNumber"),
		CreatedAt:     created,
		UpdatedAt:     firstMillis(flat, "updatedAt", "updated_at", keyUpdateTime),
		Linked: model.TicketLinks{
			Orders:        stringList(flat["linkedOrders"]),
			Shipments:     stringList(flat["linkedShipments"]),
			Conversations: stringList(flat["linkedConversations"]),
			Tickets:       stringList(flat["linkedTickets"]),
		},
	}
	if t.UpdatedAt == 0 {
		t.UpdatedAt = created
	}
	return t
}

// Tickets normalizes a raw record list, dropping records without identity.
func Tickets(raws []map[string]any) []model.Ticket {
	out := make([]model.Ticket, 0, len(raws))
	for _, raw := range raws {
		if t := Ticket(raw); t != nil {
			out = append(out, *t)
		}
	}
	return out
}
