package model

import "strings"

// NormalizeStatus canonicalizes a remote status string for badge/class lookup:
// trimmed, lowercased, spaces collapsed to underscores.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Join(strings.Fields(s), "_")
	return s
}

type ConversationStatus string

const (
	ConversationStatusOpen   ConversationStatus = "open"
	ConversationStatusClosed ConversationStatus = "closed"
)

const (
	ShippingStatusPending   = "pending"
	ShippingStatusOpen      = "open"
	ShippingStatusInTransit = "in_transit"
	ShippingStatusDelivered = "delivered"
	ShippingStatusCancelled = "cancelled"
)

var ShippingRequestStatuses = []string{
	ShippingStatusOpen,
	ShippingStatusInTransit,
	ShippingStatusDelivered,
	ShippingStatusCancelled,
}
