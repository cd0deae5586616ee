package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Default models per provider.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250514"
	DefaultMaxTokens      = 1500
)

// ErrMissingAPIKey is returned when no API key is configured for the selected provider.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// Client is a chat-style text completion capability.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
	Provider() string
}

// Config holds LLM client configuration.
type Config struct {
	Provider  string // "openai" or "anthropic"
	APIKey    string
	BaseURL   string // Optional: custom API endpoint
	Model     string
	MaxTokens int
}

// ConfigFromEnv builds a Config from LLM_PROVIDER, LLM_MODEL, LLM_BASE_URL, LLM_MAX_TOKENS and
// the provider's API key variable (OPENAI_API_KEY or ANTHROPIC_API_KEY).
func ConfigFromEnv() Config {
	cfg := Config{
		Provider:  getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI),
		Model:     os.Getenv("LLM_MODEL"),
		BaseURL:   os.Getenv("LLM_BASE_URL"),
		MaxTokens: getEnvIntOrDefault("LLM_MAX_TOKENS", DefaultMaxTokens),
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, "":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.Provider)
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max tokens must not be negative, got %d", c.MaxTokens)
	}
	return nil
}

// New creates a Client for cfg.Provider. An empty provider selects OpenAI.
func New(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		return newAnthropicClient(cfg), nil
	default:
		return newOpenAIClient(cfg), nil
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
