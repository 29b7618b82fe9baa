package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/hanselhq/hansel/pkg/models"
)

// NewClient instantiates the completion client selected by the configuration.
func NewClient(ctx context.Context, cfg models.LLMConfig, apiKey string) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return NewAnthropicClient(apiKey, cfg)
	case "google":
		return NewGoogleClient(ctx, apiKey, cfg)
	case "":
		return nil, fmt.Errorf("no LLM provider configured: set llm.provider to 'anthropic' or 'google'")
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (supported: anthropic, google)", cfg.Provider)
	}
}
