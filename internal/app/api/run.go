package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	aiclient "github.com/ecomai/ecom-api-server/internal/clients/http/aigateway"
	vectorclient "github.com/ecomai/ecom-api-server/internal/clients/http/vectorstore"

	cataloghandler "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/http/handler"
	catalogmemory "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/ecomai/ecom-api-server/internal/domains/catalog/application"
	catalogports "github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"

	ordershandler "github.com/ecomai/ecom-api-server/internal/domains/orders/adapters/http/handler"
	ordersmemory "github.com/ecomai/ecom-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/ecomai/ecom-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/ecomai/ecom-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/ecomai/ecom-api-server/internal/domains/orders/application"
	ordersports "github.com/ecomai/ecom-api-server/internal/domains/orders/ports"

	searchai "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/ai"
	searchhandler "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/http/handler"
	searchmemory "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/memory"
	searchvector "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/vectorstore"
	searchworkflows "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/workflows"
	searchapp "github.com/ecomai/ecom-api-server/internal/domains/search/application"
	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"

	platformmigrations "github.com/ecomai/ecom-api-server/internal/platform/migrations"
	platformobservability "github.com/ecomai/ecom-api-server/internal/platform/observability"
	platformpostgres "github.com/ecomai/ecom-api-server/internal/platform/postgres"
)

// Run boots the HTTP API with observability, repositories, AI clients, and
// workflows wired. Missing infrastructure degrades to in-process fallbacks so
// the service still starts in a bare environment.
func Run(ctx context.Context) error {
	const serviceName = "ecom-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	db, cleanupDB := connectPostgres(ctx, cfg, logger)
	defer cleanupDB()
	if db != nil {
		if err := platformmigrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	index := buildSemanticIndex(cfg, logger)
	chatModel, imageModel := buildAIModels(cfg, logger)

	var catalogRepo catalogports.Repository
	var orderRepo ordersports.Repository
	var placementStore ordersports.PlacementStore
	if db != nil {
		catalogRepo = catalogpostgres.NewRepository(db)
		pgOrders := orderspostgres.NewRepository(db)
		orderRepo = pgOrders
		placementStore = pgOrders
	} else {
		memCatalog := catalogmemory.NewRepository()
		memOrders := ordersmemory.NewRepository()
		catalogRepo = memCatalog
		orderRepo = memOrders
		placementStore = ordersmemory.NewPlacementStore(memCatalog, memOrders)
	}

	var indexSync searchports.IndexSyncOrchestrator = searchworkflows.NewInlineIndexSync(index)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, running index sync inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		indexSync = searchworkflows.NewTemporalIndexSync(temporalClient)
		logger.Info("Temporal index sync enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	catalogService := catalogobs.New(
		catalogapp.NewService(
			catalogRepo,
			catalogapp.WithLogger(logger),
			catalogapp.WithSemanticIndex(index),
			catalogapp.WithChatModel(chatModel),
			catalogapp.WithImageModel(imageModel),
		),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(
			placementStore,
			orderRepo,
			ordersapp.WithLogger(logger),
			ordersapp.WithIndexSync(indexSync),
		),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	assistant := searchapp.NewService(index, chatModel, searchapp.WithLogger(logger))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	apiGroup := router.Group("/api")
	cataloghandler.NewProductAPI(catalogService).Register(apiGroup)
	ordershandler.NewOrderAPI(orderService).Register(apiGroup)
	searchhandler.NewChatAPI(assistant).Register(apiGroup)
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	addr := ":" + cfg.Port
	logger.Info("API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildSemanticIndex(cfg Config, logger *slog.Logger) searchports.SemanticIndex {
	if cfg.VectorStoreURL == "" {
		logger.Warn("VECTORSTORE_BASE_URL not set, using in-memory semantic index")
		return searchmemory.NewIndex()
	}
	c, err := vectorclient.New(cfg.VectorStoreURL, nil)
	if err != nil {
		logger.Warn("invalid vector store configuration, using in-memory semantic index", slog.String("error", err.Error()))
		return searchmemory.NewIndex()
	}
	logger.Info("semantic index configured with vector store", slog.String("baseUrl", cfg.VectorStoreURL))
	return searchvector.NewIndex(c)
}

func buildAIModels(cfg Config, logger *slog.Logger) (searchports.ChatModel, searchports.ImageModel) {
	if cfg.AIGatewayURL == "" {
		logger.Warn("AI_GATEWAY_BASE_URL not set, AI features disabled")
		return nil, nil
	}
	c, err := aiclient.New(cfg.AIGatewayURL, cfg.AIGatewayAPIKey, nil)
	if err != nil {
		logger.Warn("invalid AI gateway configuration, AI features disabled", slog.String("error", err.Error()))
		return nil, nil
	}
	gateway := searchai.NewGateway(c)
	logger.Info("AI gateway configured", slog.String("baseUrl", cfg.AIGatewayURL))
	return gateway, gateway
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
