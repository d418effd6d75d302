package ports

import (
	"context"

	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
)

// OrderItemInput is one requested line of a placement call.
type OrderItemInput struct {
	ProductID int64
	Quantity  int32
}

// PlaceOrderInput carries the customer details and requested items.
type PlaceOrderInput struct {
	CustomerName string
	Email        string
	Items        []OrderItemInput
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, code string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}
