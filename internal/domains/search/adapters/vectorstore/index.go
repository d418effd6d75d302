package vectorstore

import (
	"context"
	"errors"
	"fmt"

	vectorclient "github.com/ecomai/ecom-api-server/internal/clients/http/vectorstore"
	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

var _ ports.SemanticIndex = (*Index)(nil)

// Index adapts the vector store HTTP client to the SemanticIndex port.
// Transport failures surface as ErrIndexUnavailable so callers can treat
// index trouble as a degraded-mode condition rather than a hard fault.
type Index struct {
	client *vectorclient.Client
}

func NewIndex(client *vectorclient.Client) *Index {
	return &Index{client: client}
}

func (i *Index) Add(ctx context.Context, doc domain.Document) error {
	if i == nil || i.client == nil {
		return errors.New("vector store index not configured")
	}
	err := i.client.AddDocument(ctx, vectorclient.Document{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrIndexUnavailable, err)
	}
	return nil
}

func (i *Index) DeleteByMetadata(ctx context.Context, key, value string) error {
	if i == nil || i.client == nil {
		return errors.New("vector store index not configured")
	}
	if err := i.client.DeleteByMetadata(ctx, key, value); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrIndexUnavailable, err)
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, topK int, minScore float64) ([]domain.Document, error) {
	if i == nil || i.client == nil {
		return nil, errors.New("vector store index not configured")
	}
	found, err := i.client.Search(ctx, query, topK, minScore)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrIndexUnavailable, err)
	}
	docs := make([]domain.Document, 0, len(found))
	for _, f := range found {
		docs = append(docs, domain.Document{ID: f.ID, Content: f.Content, Metadata: f.Metadata})
	}
	return docs, nil
}
