package models

// LLMConfig holds the provider selection and per-provider completion settings.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// Config is the merged application configuration.
type Config struct {
	SessionName string    `yaml:"session_name" mapstructure:"session_name"`
	WallDir     string    `yaml:"wall_dir" mapstructure:"wall_dir"`
	LLM         LLMConfig `yaml:"llm" mapstructure:"llm"`
}
