package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesTransaction_RequiredFields(t *testing.T) {
	s := SalesTransaction()

	assert.Equal(t, []string{
		"order_id", "customer_id", "order_date", "source",
		"items", "shipping_address", "payment_method", "total_amount",
	}, s.Required)
	assert.Equal(t, s.Required, s.Order)

	addr := s.Properties["shipping_address"]
	require.NotNil(t, addr)
	assert.NotContains(t, addr.Required, "line2")
	assert.Contains(t, addr.Order, "line2")
	assert.Equal(t, []string{"line1", "city", "state", "postal_code", "country"}, addr.Required)
}

func TestSalesTransaction_Minimums(t *testing.T) {
	s := SalesTransaction()

	item := s.Properties["items"].Items
	require.NotNil(t, item)
	assert.Equal(t, TypeInteger, item.Properties["qty"].Type)
	assert.Equal(t, 1.0, *item.Properties["qty"].Minimum)
	assert.Equal(t, 0.0, *item.Properties["unit_price"].Minimum)
	assert.Equal(t, 0.0, *s.Properties["total_amount"].Minimum)
	assert.Nil(t, s.Properties["order_id"].Minimum)
}

func TestOrderMatchesProperties(t *testing.T) {
	var walk func(path string, s *Schema)
	walk = func(path string, s *Schema) {
		assert.Len(t, s.Order, len(s.Properties), path)
		for _, name := range s.Order {
			child, ok := s.Properties[name]
			if assert.True(t, ok, "%s.%s missing from properties", path, name) {
				walk(path+"."+name, child)
			}
		}
		if s.Items != nil {
			walk(path+"[]", s.Items)
		}
	}
	walk("$", SalesTransaction())
}

func TestDocument(t *testing.T) {
	raw, err := SalesTransaction().Document()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, draft07, doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.NotContains(t, doc, "Order")

	props := doc["properties"].(map[string]any)
	orderDate := props["order_date"].(map[string]any)
	assert.Equal(t, "date-time", orderDate["format"])

	total := props["total_amount"].(map[string]any)
	assert.Equal(t, 0.0, total["minimum"])

	items := props["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	assert.NotContains(t, items, "minItems")
}
