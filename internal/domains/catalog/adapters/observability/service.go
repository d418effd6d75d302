package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	catalogports "github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"
)

const tracerName = "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) Search(ctx context.Context, keyword string) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Search")
	defer span.End()

	result, err := s.inner.Search(ctx, keyword)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search products")
	}
	return result, nil
}

func (s *Service) Save(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	var id int64
	if product != nil {
		id = product.ID
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.Save", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "saving product", slog.Int64("product.id", id))
	result, err := s.inner.Save(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to save product", slog.Int64("product.id", id))
	}
	s.metrics.recordSaved(ctx)
	s.logInfo(ctx, "product saved", slog.Int64("product.id", result.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GenerateDescription")
	defer span.End()

	result, err := s.inner.GenerateDescription(ctx, name, category)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to generate description")
	}
	return result, nil
}

func (s *Service) GenerateImage(ctx context.Context, name, category, description string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GenerateImage")
	defer span.End()

	result, err := s.inner.GenerateImage(ctx, name, category, description)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate image")
	}
	span.SetAttributes(attribute.Int("image.bytes", len(result)))
	return result, nil
}

func (s *Service) SemanticSearch(ctx context.Context, query string) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SemanticSearch")
	defer span.End()

	result, err := s.inner.SemanticSearch(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed semantic search")
	}
	s.metrics.recordSemanticSearch(ctx)
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	productsSaved    metric.Int64Counter
	semanticSearches metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsSaved, _ := m.Int64Counter("catalog.service.products_saved", metric.WithDescription("Number of products created or updated"))
	semanticSearches, _ := m.Int64Counter("catalog.service.semantic_searches", metric.WithDescription("Number of semantic search calls"))
	return serviceMetrics{productsSaved: productsSaved, semanticSearches: semanticSearches}
}

func (m serviceMetrics) recordSaved(ctx context.Context) {
	if m.productsSaved != nil {
		m.productsSaved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordSemanticSearch(ctx context.Context) {
	if m.semanticSearches != nil {
		m.semanticSearches.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
