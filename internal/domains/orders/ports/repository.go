package ports

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/orders/domain"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrDuplicateOrderCode = errors.New("order code already exists")
)

// InsufficientStockError reports a stock check failure, naming the product.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int32
	Available   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// Repository reads persisted orders.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}

// PlacementStore runs a placement attempt as one atomic unit: every stock
// decrement and the order insert commit together or not at all.
type PlacementStore interface {
	Place(ctx context.Context, fn func(tx PlacementTx) error) error
}

// PlacementTx is the transactional view handed to the placement loop.
type PlacementTx interface {
	// DeductStock atomically checks and decrements stock for one product,
	// returning its post-deduction state. Concurrent decrements of the same
	// product never both succeed when their combined quantity exceeds the
	// available stock. Fails with ErrProductNotFound or
	// *InsufficientStockError.
	DeductStock(ctx context.Context, productID int64, quantity int32) (*catalogdomain.Product, error)
	// SaveOrder persists the order and all its items. Fails with
	// ErrDuplicateOrderCode when the generated code is already taken.
	SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}
