package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderThreeShapesSameOutput(t *testing.T) {
	flat := map[string]any{
		"Order Number":       "1025",
		"Shipping Name":      "Ada Lovelace",
		"Email":              "ada@example.com",
		"Phone":              "555-0101",
		"Shipping Address 1": "12 Engine St",
		"Shipping Address 2": "Apt 3",
		"Shipping City":      "London",
		"Shipping State":     "LDN",
		"Shipping Zipcode":   "E1 6AN",
		"Shipping Country":   "UK",
	}
	legacy := map[string]any{
		"order_number": "1025",
		"name":         "Ada Lovelace",
		"email":        "ada@example.com",
		"phone":        "555-0101",
		"address1":     "12 Engine St",
		"address2":     "Apt 3",
		"city":         "London",
		"state":        "LDN",
		"zip":          "E1 6AN",
		"country":      "UK",
	}
	firestore := map[string]any{
		"document": map[string]any{
			"name": "projects/p/databases/(default)/documents/orders/ignored",
			"fields": map[string]any{
				"Order Number":       map[string]any{"integerValue": "1025"},
				"Shipping Name":      map[string]any{"stringValue": "Ada Lovelace"},
				"Email":              map[string]any{"stringValue": "ada@example.com"},
				"Phone":              map[string]any{"stringValue": "555-0101"},
				"Shipping Address 1": map[string]any{"stringValue": "12 Engine St"},
				"Shipping Address 2": map[string]any{"stringValue": "Apt 3"},
				"Shipping City":      map[string]any{"stringValue": "London"},
				"Shipping State":     map[string]any{"stringValue": "LDN"},
				"Shipping Zipcode":   map[string]any{"stringValue": "E1 6AN"},
				"Shipping Country":   map[string]any{"stringValue": "UK"},
			},
		},
	}

	fromFlat := Order(flat)
	fromLegacy := Order(legacy)
	fromFirestore := Order(firestore)
	require.NotNil(t, fromFlat)
	assert.Equal(t, fromFlat, fromLegacy)
	assert.Equal(t, fromFlat, fromFirestore)
	assert.Equal(t, "1025", fromFlat.ID)
	assert.Equal(t, "Apt 3", fromFlat.Address.Line2)
}

func TestOrderIDFallbackChain(t *testing.T) {
	assert.Equal(t, "A", Order(map[string]any{"Order Number": "A", "order_no": "B"}).ID)
	assert.Equal(t, "B", Order(map[string]any{"order_no": "B", "id": "C"}).ID)
	assert.Equal(t, "C", Order(map[string]any{"id": "C"}).ID)
}

func TestOrderWithoutIdentityDiscarded(t *testing.T) {
	assert.Nil(t, Order(map[string]any{"Email": "x@y.com"}))
	assert.Nil(t, Order(map[string]any{"Order Number": "   "}))
}

func TestOrdersDropsBrokenRecords(t *testing.T) {
	raws := []map[string]any{
		{"order_no": "1"},
		{"email": "no-id@x.com"},
		{"order_no": "2"},
	}
	orders := Orders(raws)
	require.Len(t, orders, 2)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, "2", orders[1].ID)
}
