package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCode_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewOrderCode()
		require.Len(t, code, 13)
		require.True(t, strings.HasPrefix(code, "ORD"))
		suffix := code[3:]
		assert.Equal(t, strings.ToUpper(suffix), suffix)
		for _, r := range suffix {
			assert.Contains(t, "0123456789ABCDEF", string(r))
		}
		seen[code] = true
	}
	assert.Len(t, seen, 100)
}

func TestNewOrder_Validates(t *testing.T) {
	now := time.Now()

	order, err := NewOrder(NewOrderCode(), "Jordan Doe", "jordan@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, StatusPlaced, order.Status)
	assert.Equal(t, now, order.OrderDate)

	_, err = NewOrder("BAD", "Jordan Doe", "jordan@example.com", now)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = NewOrder(NewOrderCode(), "  ", "jordan@example.com", now)
	assert.ErrorIs(t, err, ErrEmptyCustomerName)

	_, err = NewOrder(NewOrderCode(), "Jordan Doe", "not-an-email", now)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestAddItem_SnapshotsPrice(t *testing.T) {
	order, err := NewOrder(NewOrderCode(), "Jordan Doe", "jordan@example.com", time.Now())
	require.NoError(t, err)

	price := decimal.RequireFromString("100.00")
	require.NoError(t, order.AddItem(7, "Widget", 3, price))
	require.Len(t, order.Items, 1)

	item := order.Items[0]
	assert.Equal(t, int64(7), item.ProductID)
	assert.Equal(t, "Widget", item.ProductName)
	assert.True(t, item.UnitPrice.Equal(price))
	assert.Equal(t, "300.00", item.TotalPrice.StringFixed(2))
	assert.Equal(t, "300.00", order.Total().StringFixed(2))

	assert.ErrorIs(t, order.AddItem(8, "Gadget", 0, price), ErrInvalidQuantity)
}

func TestSummaryContent(t *testing.T) {
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	order, err := NewOrder("ORDABCDEF1234", "Jordan Doe", "jordan@example.com", date)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(7, "Widget", 2, decimal.RequireFromString("19.99")))

	content := order.SummaryContent()
	assert.Contains(t, content, "Order Summary:")
	assert.Contains(t, content, "Order ID: ORDABCDEF1234")
	assert.Contains(t, content, "Customer: Jordan Doe")
	assert.Contains(t, content, "Date: 2026-03-14")
	assert.Contains(t, content, "Status: PLACED")
	assert.Contains(t, content, "- Widget x 2 = 39.98")
}
