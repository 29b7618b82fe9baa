package llm

import (
	"context"
	"fmt"

	"github.com/hanselhq/hansel/pkg/models"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GoogleClient implements Client on the Gemini API.
type GoogleClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewGoogleClient creates a Gemini-backed completion client.
func NewGoogleClient(ctx context.Context, apiKey string, cfg models.LLMConfig) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("creating Gemini client: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GoogleClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Complete converts the transcript to Gemini content and requests a completion.
func (c *GoogleClient) Complete(ctx context.Context, history []models.Message, systemPrompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(c.temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if c.maxTokens > 0 {
		config.MaxOutputTokens = int32(c.maxTokens)
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini completion: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini completion: empty response")
	}
	return text, nil
}

func (c *GoogleClient) ProviderName() string { return "Google Gemini" }
