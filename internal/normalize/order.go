package normalize

import "support-desk-backend/internal/model"

// Order normalizes a raw order record from any of the known shapes into the
// canonical form. The same field chains run against the flattened view, so a
// flat record, a legacy-named record, and a Firestore document with the same
// data produce identical output. Returns nil when no order id can be found.
func Order(raw map[string]any) *model.Order {
	flat := Flatten(raw)
	id := firstString(flat, "Order Number", "order_number", "order_no", "orderNo", keyDocumentID, "id")
	if id == "" {
		return nil
	}
	return &model.Order{
		ID:    id,
		Name:  firstString(flat, "Shipping Name", "shipping_name", "name", "Name"),
		Email: firstString(flat, "Email", "email", "user_email"),
		Phone: firstString(flat, "Phone", "phone"),
		Address: model.ShippingAddress{
			Line1:   firstString(flat, "Shipping Address 1", "address1", "address_1", "address"),
			Line2:   firstString(flat, "Shipping Address 2", "address2", "address_2"),
			City:    firstString(flat, "Shipping City", "city"),
			State:   firstString(flat, "Shipping State", "state"),
			Zip:     firstString(flat, "Shipping Zipcode", "zip", "zipcode", "postal_code"),
			Country: firstString(flat, "Shipping Country", "country"),
		},
		Product:   firstString(flat, "Product", "product", "product_name"),
		OrderedAt: orderedAt(flat),
	}
}

func orderedAt(flat map[string]any) string {
	if s := firstString(flat, "Order Date", "order_date", "created_at", "createdAt"); s != "" {
		return s
	}
	if s, _ := flat[keyCreateTime].(string); s != "" {
		return s
	}
	return ""
}

// Orders normalizes a raw record list, dropping records without identity.
func Orders(raws []map[string]any) []model.Order {
	out := make([]model.Order, 0, len(raws))
	for _, raw := range raws {
		if o := Order(raw); o != nil {
			out = append(out, *o)
		}
	}
	return out
}
