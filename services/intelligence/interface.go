package intelligence

import (
	"context"

	"bookingagent/models"
)

// Generator produces the assistant's next reply from role-tagged messages.
// The last message is the one being answered; system messages carry instructions.
type Generator interface {
	Generate(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, messages []models.ChatMessage) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, messages []models.ChatMessage) (string, error) {
	return f(ctx, messages)
}

// ContextStore keeps conversation contexts between turns.
// Get returns nil, nil when the session is unknown or expired.
type ContextStore interface {
	Get(ctx context.Context, sessionID string) (*models.Context, error)
	Set(ctx context.Context, c *models.Context) error
	Clear(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}
