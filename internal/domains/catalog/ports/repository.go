package ports

import (
	"context"
	"errors"

	"github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists products. Save is atomic per call.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
}
