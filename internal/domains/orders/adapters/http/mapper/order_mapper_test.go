package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersdomain "github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
)

func TestFromDomainOrder(t *testing.T) {
	order, err := ordersdomain.NewOrder("ORDABCDEF1234", "Jordan Doe", "jordan@example.com",
		time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, order.AddItem(7, "Widget", 3, decimal.RequireFromString("100.00")))

	result := FromDomainOrder(order)
	assert.Equal(t, "ORDABCDEF1234", result.OrderID)
	assert.Equal(t, "PLACED", result.Status)
	assert.Equal(t, "2026-03-14", result.OrderDate)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Widget", result.Items[0].ProductName)
	assert.Equal(t, int32(3), result.Items[0].Quantity)
	assert.Equal(t, "300.00", result.Items[0].TotalPrice)
}

func TestFromDomainOrder_Nil(t *testing.T) {
	assert.Equal(t, OrderResult{}, FromDomainOrder(nil))
}

func TestToPlacementInput(t *testing.T) {
	input := ToPlacementInput(PlaceOrderRequest{
		CustomerName: "Jordan Doe",
		Email:        "jordan@example.com",
		Items: []OrderItemRequest{
			{ProductID: 7, Quantity: 3},
			{ProductID: 8, Quantity: 1},
		},
	})
	assert.Equal(t, "Jordan Doe", input.CustomerName)
	require.Len(t, input.Items, 2)
	assert.Equal(t, int64(7), input.Items[0].ProductID)
	assert.Equal(t, int32(3), input.Items[0].Quantity)
}
