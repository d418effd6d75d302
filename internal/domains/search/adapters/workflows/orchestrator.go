package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
	searchworkflows "github.com/ecomai/ecom-api-server/internal/durable/temporal/workflows/search"
)

var (
	_ ports.IndexSyncOrchestrator = (*TemporalIndexSync)(nil)
	_ ports.IndexSyncOrchestrator = (*InlineIndexSync)(nil)
)

// TemporalIndexSync hands the batch to a durable workflow; the Temporal
// retry policy owns redelivery, so a transient index outage no longer loses
// documents. Start errors are reported; workflow completion is not awaited.
type TemporalIndexSync struct {
	client    client.Client
	taskQueue string
}

// NewTemporalIndexSync wires a Temporal client into the orchestrator.
func NewTemporalIndexSync(c client.Client) *TemporalIndexSync {
	return &TemporalIndexSync{client: c, taskQueue: searchworkflows.IndexSyncTaskQueue}
}

func (o *TemporalIndexSync) Sync(ctx context.Context, requests []ports.SyncRequest) error {
	if o == nil || o.client == nil {
		return errors.New("temporal index sync not configured")
	}
	if len(requests) == 0 {
		return nil
	}
	traceComponent := syncTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("index-sync-%s", traceComponent),
		TaskQueue: o.taskQueue,
	}
	_, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		searchworkflows.IndexSyncWorkflow,
		searchworkflows.IndexSyncWorkflowInput{Requests: requests, TraceID: traceComponent},
	)
	return err
}

// InlineIndexSync writes straight to the index, delete-before-add per
// entity, used when Temporal is unavailable or disabled. All requests are
// attempted even when earlier ones fail; errors are joined for the caller.
type InlineIndexSync struct {
	index ports.SemanticIndex
}

// NewInlineIndexSync wraps the semantic index for synchronous execution.
func NewInlineIndexSync(index ports.SemanticIndex) *InlineIndexSync {
	return &InlineIndexSync{index: index}
}

func (o *InlineIndexSync) Sync(ctx context.Context, requests []ports.SyncRequest) error {
	if o == nil || o.index == nil {
		return errors.New("inline index sync not configured")
	}
	var syncErr error
	for _, request := range requests {
		if err := o.index.DeleteByMetadata(ctx, request.MetadataKey, request.MetadataValue); err != nil {
			syncErr = errors.Join(syncErr, err)
			continue
		}
		if err := o.index.Add(ctx, request.Document); err != nil {
			syncErr = errors.Join(syncErr, err)
		}
	}
	return syncErr
}

func syncTraceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span != nil {
		spanCtx := span.SpanContext()
		if spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
			return spanCtx.TraceID().String()
		}
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
