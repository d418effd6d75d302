package ports

import "context"

// Assistant exposes the conversational use case to adapters.
type Assistant interface {
	Ask(ctx context.Context, message string) (string, error)
}
