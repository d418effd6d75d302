package application

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var chatPrompt = template.Must(template.ParseFS(promptFS, "prompts/chatbot.tmpl"))

const (
	contextTopK     = 5
	contextMinScore = 0.7
)

var (
	// ErrEmptyMessage signals a blank chat request.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrChatUnavailable signals that no chat model is configured.
	ErrChatUnavailable = errors.New("chat model not configured")
)

// Service answers free-form customer questions by retrieving semantically
// similar documents and handing them to the chat model as context.
type Service struct {
	index  ports.SemanticIndex
	chat   ports.ChatModel
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the assistant with its collaborators.
func NewService(index ports.SemanticIndex, chat ports.ChatModel, opts ...Option) *Service {
	s := &Service{index: index, chat: chat}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Ask retrieves context for the message and returns the model's reply.
func (s *Service) Ask(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if s.chat == nil {
		return "", ErrChatUnavailable
	}
	contextText := s.fetchContext(ctx, message)
	var prompt strings.Builder
	if err := chatPrompt.Execute(&prompt, struct {
		Context string
		Message string
	}{Context: contextText, Message: message}); err != nil {
		return "", fmt.Errorf("render chat prompt: %w", err)
	}
	reply, err := s.chat.Complete(ctx, prompt.String())
	if err != nil {
		return "", fmt.Errorf("chat model: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// fetchContext degrades to an empty context when the index is unreachable;
// the assistant still answers, just without retrieval.
func (s *Service) fetchContext(ctx context.Context, query string) string {
	if s.index == nil {
		return ""
	}
	docs, err := s.index.Search(ctx, query, contextTopK, contextMinScore)
	if err != nil {
		s.logWarn(ctx, "semantic context unavailable", err)
		return ""
	}
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Service) logWarn(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, slog.String("error", err.Error()))
}

var _ ports.Assistant = (*Service)(nil)
