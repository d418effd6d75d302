package ports

import (
	"context"
	"errors"

	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
)

// ErrIndexUnavailable signals the external index could not complete a call.
var ErrIndexUnavailable = errors.New("semantic index unavailable")

// SemanticIndex is the gateway to the external vector store. Only program
// order is guaranteed across calls; callers sequence delete-before-add when
// superseding a document.
type SemanticIndex interface {
	Add(ctx context.Context, doc domain.Document) error
	DeleteByMetadata(ctx context.Context, key, value string) error
	Search(ctx context.Context, query string, topK int, minScore float64) ([]domain.Document, error)
}
