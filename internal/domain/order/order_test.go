package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shoplite/internal/domain/validate"
)

func mustItem(t *testing.T, productID int64, title, price string, qty int) Item {
	t.Helper()
	it, err := NewItem(productID, title, decimal.RequireFromString(price), qty)
	require.NoError(t, err)
	return it
}

func TestNewItem_InvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := NewItem(1, "A", decimal.NewFromInt(10), qty)

		var vErr *validate.Error
		require.ErrorAs(t, err, &vErr, "quantity %d should be rejected", qty)
		assert.Equal(t, "quantity", vErr.Field)
	}
}

func TestItem_LineTotal(t *testing.T) {
	it := mustItem(t, 1, "A", "3.33", 3)
	assert.True(t, it.LineTotal().Equal(decimal.RequireFromString("9.99")), "got %s", it.LineTotal())
}

func TestOrder_Total(t *testing.T) {
	o := New(1, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, o.AddItem(mustItem(t, 1, "A", "10.00", 2)))
	require.NoError(t, o.AddItem(mustItem(t, 2, "B", "5.00", 1)))

	assert.True(t, o.Total().Equal(decimal.RequireFromString("25.00")), "got %s", o.Total())
}

func TestOrder_TotalEmpty(t *testing.T) {
	o := New(1, time.Now())
	assert.True(t, o.Total().IsZero())
}

func TestOrder_AddItemRejectsBadQuantity(t *testing.T) {
	o := New(1, time.Now())
	require.NoError(t, o.AddItem(mustItem(t, 1, "A", "10.00", 1)))

	err := o.AddItem(Item{productID: 2, quantity: 0})
	require.Error(t, err)
	assert.Len(t, o.Items(), 1, "rejected item must leave the order unchanged")
}

func TestOrder_ItemsKeepInsertionOrder(t *testing.T) {
	o := New(1, time.Now())
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, o.AddItem(mustItem(t, i, "P", "1.00", 1)))
	}

	items := o.Items()
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, int64(i+1), it.ProductID())
	}
}

func TestOrder_MarshalJSON(t *testing.T) {
	o := New(4, time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC))
	o.ID = 11
	require.NoError(t, o.AddItem(mustItem(t, 2, "Keyboard", "50.00", 1)))

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, float64(11), m["id"])
	assert.Equal(t, float64(4), m["customer_id"])
	assert.Equal(t, "2025-03-09T15:04:05", m["created_at"])
	assert.Equal(t, "50.00", m["total"])

	items, ok := m["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(map[string]any)
	assert.Equal(t, "Keyboard", item["product_title"])
	assert.Equal(t, "50.00", item["line_total"])
	assert.Equal(t, float64(1), item["quantity"])
}
