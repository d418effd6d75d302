package search

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

const (
	// IndexSyncWorkflowName is the public identifier for registering the workflow.
	IndexSyncWorkflowName = "search.workflows.IndexSync"
	// IndexSyncTaskQueue is the queue consumed by the worker applying index writes.
	IndexSyncTaskQueue = "SEMANTIC_INDEX_SYNC"

	// PurgeDocumentsActivityName deletes stale documents by metadata filter.
	PurgeDocumentsActivityName = "search.activities.PurgeDocuments"
	// AddDocumentActivityName pushes one replacement document.
	AddDocumentActivityName = "search.activities.AddDocument"
)

// IndexSyncWorkflowInput carries the rendered documents to reconcile.
type IndexSyncWorkflowInput struct {
	Requests []searchports.SyncRequest
	TraceID  string
}

// PurgeInput names the metadata filter for stale-document removal.
type PurgeInput struct {
	MetadataKey   string
	MetadataValue string
}

// IndexSyncWorkflow applies each sync request in order: purge the stale
// document for the entity, then add its replacement. The relational state
// these documents were rendered from is already committed, so the workflow
// retries until the index accepts the writes.
func IndexSyncWorkflow(ctx workflow.Context, input IndexSyncWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("IndexSyncWorkflow started", withTraceID(input.TraceID, "documents", len(input.Requests))...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    2 * time.Minute,
			MaximumAttempts:    10,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	for _, request := range input.Requests {
		purge := PurgeInput{MetadataKey: request.MetadataKey, MetadataValue: request.MetadataValue}
		if err := workflow.ExecuteActivity(ctx, PurgeDocumentsActivityName, purge).Get(ctx, nil); err != nil {
			logger.Error("IndexSyncWorkflow purge failed", withTraceID(input.TraceID, "metadataKey", request.MetadataKey, "error", err)...)
			return err
		}
		if err := workflow.ExecuteActivity(ctx, AddDocumentActivityName, request.Document).Get(ctx, nil); err != nil {
			logger.Error("IndexSyncWorkflow add failed", withTraceID(input.TraceID, "documentId", request.Document.ID, "error", err)...)
			return err
		}
	}
	logger.Info("IndexSyncWorkflow completed", withTraceID(input.TraceID, "documents", len(input.Requests))...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
