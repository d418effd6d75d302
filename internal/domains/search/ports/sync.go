package ports

import (
	"context"

	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
)

// SyncRequest supersedes the indexed documents matching the metadata pair
// with a freshly rendered replacement.
type SyncRequest struct {
	MetadataKey   string
	MetadataValue string
	Document      domain.Document
}

// IndexSyncOrchestrator applies a batch of sync requests against the
// semantic index, in order. Implementations may run inline or hand the batch
// to a durable executor; either way the relational state the documents were
// rendered from is already committed.
type IndexSyncOrchestrator interface {
	Sync(ctx context.Context, requests []SyncRequest) error
}
