package ai

import (
	"context"
	"errors"

	aiclient "github.com/ecomai/ecom-api-server/internal/clients/http/aigateway"
	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

var (
	_ ports.ChatModel  = (*Gateway)(nil)
	_ ports.ImageModel = (*Gateway)(nil)
)

// Gateway adapts the AI gateway HTTP client to the chat and image ports.
type Gateway struct {
	client *aiclient.Client
}

func NewGateway(client *aiclient.Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("AI gateway not configured")
	}
	return g.client.Complete(ctx, prompt)
}

func (g *Gateway) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("AI gateway not configured")
	}
	return g.client.Generate(ctx, prompt)
}
