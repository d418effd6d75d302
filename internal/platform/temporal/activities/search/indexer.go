package search

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	searchdomain "github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"
	searchworkflows "github.com/ecomai/ecom-api-server/internal/durable/temporal/workflows/search"
)

// Activities groups the index-write activities executed by the worker.
type Activities struct {
	index searchports.SemanticIndex
}

// NewActivities wires the semantic index into the Temporal activities bundle.
func NewActivities(index searchports.SemanticIndex) *Activities {
	return &Activities{index: index}
}

// PurgeDocuments deletes every indexed document matching the metadata filter.
func (a *Activities) PurgeDocuments(ctx context.Context, input searchworkflows.PurgeInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.index == nil {
		logger.Error("index purge activity not initialized")
		return errors.New("index purge activity not initialized")
	}
	logger.Info("PurgeDocuments activity started", "metadataKey", input.MetadataKey, "metadataValue", input.MetadataValue)
	if err := a.index.DeleteByMetadata(ctx, input.MetadataKey, input.MetadataValue); err != nil {
		logger.Error("PurgeDocuments activity failed", "metadataKey", input.MetadataKey, "error", err)
		return err
	}
	return nil
}

// AddDocument pushes one replacement document into the index.
func (a *Activities) AddDocument(ctx context.Context, doc searchdomain.Document) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.index == nil {
		logger.Error("index add activity not initialized", "documentId", doc.ID)
		return errors.New("index add activity not initialized")
	}
	logger.Info("AddDocument activity started", "documentId", doc.ID)
	if err := a.index.Add(ctx, doc); err != nil {
		logger.Error("AddDocument activity failed", "documentId", doc.ID, "error", err)
		return err
	}
	return nil
}
