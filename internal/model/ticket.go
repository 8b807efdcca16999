package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type TicketLinks struct {
	Orders        []string `json:"orders"`
	Shipments     []string `json:"shipments"`
	Conversations []string `json:"conversations"`
	Tickets       []string `json:"tickets"`
}

type Ticket struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Priority      string      `json:"priority"`
	Title         string      `json:"title,omitempty"`
	Customer      string      `json:"customer,omitempty"`
	Email         string      `json:"email,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	Category      string      `json:"category,omitempty"`
	SourceChannel string      `json:"sourceChannel,omitempty"`
	InternalNotes string      `json:"internalNotes,omitempty"`
	OrderNo       string      `json:"orderNo,omitempty"`
	ShippingNo    string      `json:"shippingNo,omitempty"`
	CreatedAt     int64       `json:"createdAt"`
	UpdatedAt     int64       `json:"updatedAt"`
	Linked        TicketLinks `json:"linked"`
}

var ticketIDRe = regexp.MustCompile(`^VEL-(\d{6})$`)

// IsTicketID reports whether id matches the strict VEL-NNNNNN format.
func IsTicketID(id string) bool {
	return ticketIDRe.MatchString(id)
}

// IsPseudoTicketID recognizes transient server-generated ids that the
// backend hands out before its workflow assigns the authoritative one.
func IsPseudoTicketID(id string) bool {
	return strings.HasPrefix(id, "T-")
}

func FormatTicketID(n int) string {
	return fmt.Sprintf("VEL-%06d", n)
}

// NextTicketID computes max-seen+1 over the strict-format ids in the
// collection. Array order does not matter; non-conforming ids are ignored.
func NextTicketID(tickets []Ticket) string {
	maxNum := 0
	for _, t := range tickets {
		m := ticketIDRe.FindStringSubmatch(t.ID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxNum {
			maxNum = n
		}
	}
	return FormatTicketID(maxNum + 1)
}
