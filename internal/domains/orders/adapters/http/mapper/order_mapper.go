package mapper

import (
	ordersdomain "github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
	ordersports "github.com/ecomai/ecom-api-server/internal/domains/orders/ports"
)

// PlaceOrderRequest is the transport shape of a placement call.
type PlaceOrderRequest struct {
	CustomerName string             `json:"customerName" binding:"required"`
	Email        string             `json:"email" binding:"required,email"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int32 `json:"quantity" binding:"required,gt=0"`
}

// OrderResult is the response shape for placed and listed orders. Prices
// are serialized as fixed-point strings to stay currency-exact.
type OrderResult struct {
	OrderID      string            `json:"orderId"`
	CustomerName string            `json:"customerName"`
	Email        string            `json:"email"`
	Status       string            `json:"status"`
	OrderDate    string            `json:"orderDate"`
	Items        []OrderItemResult `json:"items"`
}

// OrderItemResult is one line of the response.
type OrderItemResult struct {
	ProductName string `json:"productName"`
	Quantity    int32  `json:"quantity"`
	TotalPrice  string `json:"totalPrice"`
}

// ToPlacementInput converts the transport request into the service input.
func ToPlacementInput(req PlaceOrderRequest) ordersports.PlaceOrderInput {
	input := ordersports.PlaceOrderInput{
		CustomerName: req.CustomerName,
		Email:        req.Email,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, ordersports.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return input
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) OrderResult {
	if order == nil {
		return OrderResult{}
	}
	result := OrderResult{
		OrderID:      order.Code,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Status:       string(order.Status),
		OrderDate:    order.OrderDate.Format("2006-01-02"),
		Items:        make([]OrderItemResult, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		result.Items = append(result.Items, OrderItemResult{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice.StringFixed(2),
		})
	}
	return result
}

// FromDomainOrders maps a slice of orders.
func FromDomainOrders(orders []*ordersdomain.Order) []OrderResult {
	results := make([]OrderResult, 0, len(orders))
	for _, order := range orders {
		results = append(results, FromDomainOrder(order))
	}
	return results
}
