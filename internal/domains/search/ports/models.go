package ports

import "context"

// ChatModel completes a prompt with a third-party chat model.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageModel renders a prompt into image bytes with a third-party model.
type ImageModel interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
