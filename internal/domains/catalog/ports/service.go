package ports

import (
	"context"

	"github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GenerateDescription(ctx context.Context, name, category string) (string, error)
	GenerateImage(ctx context.Context, name, category, description string) ([]byte, error)
	SemanticSearch(ctx context.Context, query string) ([]*domain.Product, error)
}
