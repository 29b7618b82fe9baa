package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/hanselhq/hansel/pkg/models"
)

func TestNewClient_Anthropic(t *testing.T) {
	client, err := NewClient(context.Background(), models.LLMConfig{Provider: "anthropic"}, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ProviderName() != "Anthropic Claude" {
		t.Errorf("unexpected provider %q", client.ProviderName())
	}
}

func TestNewClient_ProviderIsCaseInsensitive(t *testing.T) {
	client, err := NewClient(context.Background(), models.LLMConfig{Provider: "Anthropic"}, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatal("expected client")
	}
}

func TestNewClient_MissingProvider(t *testing.T) {
	_, err := NewClient(context.Background(), models.LLMConfig{}, "key")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no LLM provider configured") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(context.Background(), models.LLMConfig{Provider: "openai"}, "key")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"openai"`) {
		t.Errorf("expected provider named in error, got %v", err)
	}
}
