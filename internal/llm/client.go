// Package llm provides the completion-service clients. The core treats a
// provider as an opaque function over the ordered history and a system
// prompt; provider failures fail the turn, never the process.
package llm

import (
	"context"

	"github.com/hanselhq/hansel/pkg/models"
)

// Client is the uniform interface over completion providers.
type Client interface {
	// Complete sends the ordered history and system prompt to the provider
	// and returns the response text.
	Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error)
	// ProviderName identifies the provider for display purposes.
	ProviderName() string
}
