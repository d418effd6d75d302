package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	vectorclient "github.com/ecomai/ecom-api-server/internal/clients/http/vectorstore"
	searchmemory "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/memory"
	searchvector "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/vectorstore"
	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"
	searchworkflows "github.com/ecomai/ecom-api-server/internal/durable/temporal/workflows/search"
	platformobservability "github.com/ecomai/ecom-api-server/internal/platform/observability"
	searchactivities "github.com/ecomai/ecom-api-server/internal/platform/temporal/activities/search"
)

func main() {
	ctx := context.Background()
	const serviceName = "ecom-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	index := buildSemanticIndex(logger)
	activities := searchactivities.NewActivities(index)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, searchworkflows.IndexSyncTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(searchworkflows.IndexSyncWorkflow, workflow.RegisterOptions{Name: searchworkflows.IndexSyncWorkflowName})
	w.RegisterActivityWithOptions(activities.PurgeDocuments, activity.RegisterOptions{Name: searchworkflows.PurgeDocumentsActivityName})
	w.RegisterActivityWithOptions(activities.AddDocument, activity.RegisterOptions{Name: searchworkflows.AddDocumentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", searchworkflows.IndexSyncTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildSemanticIndex(logger *slog.Logger) searchports.SemanticIndex {
	baseURL := strings.TrimSpace(os.Getenv("VECTORSTORE_BASE_URL"))
	if baseURL == "" {
		logger.Warn("VECTORSTORE_BASE_URL not set, worker using in-memory semantic index")
		return searchmemory.NewIndex()
	}
	c, err := vectorclient.New(baseURL, nil)
	if err != nil {
		logger.Warn("invalid vector store configuration, worker using in-memory semantic index", slog.String("error", err.Error()))
		return searchmemory.NewIndex()
	}
	logger.Info("worker semantic index configured with vector store", slog.String("baseUrl", baseURL))
	return searchvector.NewIndex(c)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
