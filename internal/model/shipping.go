package model

import (
	"fmt"
	"strings"
	"time"
)

type ShippingRequest struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId,omitempty"`
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	Product        string `json:"product,omitempty"`
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	LabelURL       string `json:"labelUrl,omitempty"`
	Note           string `json:"note,omitempty"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt,omitempty"`
	// ETAExpiresAt drives the pending countdown on the dashboard only;
	// it is never sent to or stored by the remote backend.
	ETAExpiresAt int64 `json:"_etaExpires,omitempty"`
}

const pendingIDPrefix = "pending-"

func PendingRequestID(now time.Time) string {
	return fmt.Sprintf("%s%d", pendingIDPrefix, now.UnixMilli())
}

func IsPendingRequestID(id string) bool {
	return strings.HasPrefix(id, pendingIDPrefix)
}

// IsTransientRequestID reports whether the id was minted locally or
// synthesized by the normalizer rather than assigned by the backend.
func IsTransientRequestID(id string) bool {
	return IsPendingRequestID(id) || strings.HasPrefix(id, "REQ-")
}
