package application

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/catalog/ports"
	searchdomain "github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	searchports "github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var (
	descriptionPrompt = template.Must(template.ParseFS(promptFS, "prompts/description.tmpl"))
	imagePrompt       = template.Must(template.ParseFS(promptFS, "prompts/image.tmpl"))
	searchPrompt      = template.Must(template.ParseFS(promptFS, "prompts/product-search.tmpl"))
)

const (
	searchTopK     = 5
	searchMinScore = 0.7
)

// Service orchestrates the catalog bounded context use cases. The semantic
// index is a best-effort collaborator: index failures degrade search
// freshness but never fail a catalog write.
type Service struct {
	repo   ports.Repository
	index  searchports.SemanticIndex
	chat   searchports.ChatModel
	imager searchports.ImageModel
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithSemanticIndex(index searchports.SemanticIndex) Option {
	return func(s *Service) { s.index = index }
}

func WithChatModel(chat searchports.ChatModel) Option {
	return func(s *Service) { s.chat = chat }
}

func WithImageModel(imager searchports.ImageModel) Option {
	return func(s *Service) { s.imager = imager }
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List exposes all products.
func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// GetByID loads one product.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// Search performs plain keyword matching against name, brand, and category.
func (s *Service) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	products, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Save persists a new or updated product, then re-indexes its semantic
// document (stale document purged first).
func (s *Service) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	s.reindex(ctx, saved)
	return saved, nil
}

// Delete removes the product and purges its semantic document.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	if s.index != nil {
		if err := s.index.DeleteByMetadata(ctx, searchdomain.MetadataProductID, strconv.FormatInt(id, 10)); err != nil {
			s.logWarn(ctx, "failed to purge product document from index", err, slog.Int64("product.id", id))
		}
	}
	return nil
}

// GenerateDescription asks the chat model for listing copy.
func (s *Service) GenerateDescription(ctx context.Context, name, category string) (string, error) {
	if s.chat == nil {
		return "", ErrAssistUnavailable
	}
	prompt, err := renderTemplate(descriptionPrompt, struct{ Name, Category string }{name, category})
	if err != nil {
		return "", err
	}
	text, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateImage asks the image model for a product photo.
func (s *Service) GenerateImage(ctx context.Context, name, category, description string) ([]byte, error) {
	if s.imager == nil {
		return nil, ErrAssistUnavailable
	}
	prompt, err := renderTemplate(imagePrompt, struct{ Name, Category, Description string }{name, category, description})
	if err != nil {
		return nil, err
	}
	image, err := s.imager.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	return image, nil
}

// SemanticSearch retrieves similar catalog documents, asks the chat model
// to pick matching product ids, and loads those products.
func (s *Service) SemanticSearch(ctx context.Context, query string) ([]*domain.Product, error) {
	if s.index == nil || s.chat == nil {
		return nil, ErrAssistUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}
	docs, err := s.index.Search(ctx, query, searchTopK, searchMinScore)
	if err != nil {
		return nil, err
	}
	var contextText strings.Builder
	for _, doc := range docs {
		if id := doc.MetadataValue(searchdomain.MetadataProductID); id != "" {
			fmt.Fprintf(&contextText, "Product Id: %s\n", id)
		}
		contextText.WriteString(doc.Content)
		contextText.WriteString("\n")
	}
	prompt, err := renderTemplate(searchPrompt, struct{ Context, Query string }{contextText.String(), query})
	if err != nil {
		return nil, err
	}
	reply, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	ids := parseProductIDs(reply)
	if len(ids) == 0 {
		return nil, nil
	}
	products, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (s *Service) reindex(ctx context.Context, product *domain.Product) {
	if s.index == nil || product == nil {
		return
	}
	id := strconv.FormatInt(product.ID, 10)
	if err := s.index.DeleteByMetadata(ctx, searchdomain.MetadataProductID, id); err != nil {
		s.logWarn(ctx, "failed to purge stale product document", err, slog.Int64("product.id", product.ID))
		return
	}
	doc := searchdomain.NewDocument(product.SemanticContent(), map[string]string{searchdomain.MetadataProductID: id})
	if err := s.index.Add(ctx, doc); err != nil {
		s.logWarn(ctx, "failed to index product document", err, slog.Int64("product.id", product.ID))
	}
}

// parseProductIDs tolerates code fences and stray prose around the model's
// JSON array, and drops non-positive ids.
func parseProductIDs(reply string) []int64 {
	reply = strings.TrimSpace(reply)
	if start := strings.Index(reply, "["); start >= 0 {
		if end := strings.LastIndex(reply, "]"); end > start {
			reply = reply[start : end+1]
		}
	}
	var entries []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(reply), &entries); err != nil {
		return nil
	}
	seen := make(map[int64]bool, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.ID > 0 && !seen[entry.ID] {
			seen[entry.ID] = true
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

func (s *Service) logWarn(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
