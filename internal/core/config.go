// Package core contains the business logic of the discovery engine:
// configuration, just-in-time context assembly for personas, and the
// per-turn dialogue orchestration.
package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/hanselhq/hansel/pkg/models"
	"github.com/spf13/viper"
)

// ConfigurationManager loads and validates the application configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	// APIKey returns the credential for the given provider from the
	// environment. Missing credentials are an error, never defaulted.
	APIKey(provider string) (string, error)
}

// viperConfigManager implements ConfigurationManager using Viper for reading
// the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// config.yaml relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig() *models.Config {
	return &models.Config{
		SessionName: "My Discovery",
		WallDir:     "_hansel-output/discovery-wall",
		LLM: models.LLMConfig{
			Provider:    "anthropic",
			MaxTokens:   4096,
			Temperature: 0.7,
		},
	}
}

// LoadConfig reads config.yaml from the base path. If the file does not
// exist, defaults are returned; invalid YAML is an error.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("session_name", cfg.SessionName)
	v.SetDefault("wall_dir", cfg.WallDir)
	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config.yaml: %w", err)
	}

	cfg.SessionName = v.GetString("session_name")
	cfg.WallDir = v.GetString("wall_dir")
	cfg.LLM.Provider = strings.ToLower(v.GetString("llm.provider"))
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	cfg.LLM.Temperature = v.GetFloat64("llm.temperature")

	return cfg, nil
}

// providerEnvVars maps provider names to their credential environment variables.
var providerEnvVars = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"google":    "GOOGLE_API_KEY",
}

// APIKey returns the API key for the provider from the environment.
func (cm *viperConfigManager) APIKey(provider string) (string, error) {
	envVar, ok := providerEnvVars[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("unknown LLM provider %q (supported: anthropic, google)", provider)
	}
	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("API key not found: set %s in your environment", envVar)
	}
	return key, nil
}
