package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_OpenAIDefault(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM_MAX_TOKENS", "")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
}

func TestConfigFromEnv_Anthropic(t *testing.T) {
	t.Setenv("LLM_PROVIDER", ProviderAnthropic)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("LLM_MODEL", "claude-test")
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "ak-test", cfg.APIKey)
	assert.Equal(t, "claude-test", cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens, "invalid integers fall back to the default")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "openai", cfg: Config{Provider: ProviderOpenAI, APIKey: "k"}},
		{name: "anthropic", cfg: Config{Provider: ProviderAnthropic, APIKey: "k"}},
		{name: "empty provider", cfg: Config{APIKey: "k"}},
		{name: "unknown provider", cfg: Config{Provider: "mystery", APIKey: "k"}, wantErr: true},
		{name: "missing key", cfg: Config{Provider: ProviderOpenAI}, wantErr: true},
		{name: "negative max tokens", cfg: Config{APIKey: "k", MaxTokens: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(Config{Provider: ProviderOpenAI})
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(Config{Provider: ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.Provider())
	assert.Equal(t, DefaultAnthropicModel, c.Model())

	c, err = New(Config{APIKey: "k", Model: "gpt-test"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Provider())
	assert.Equal(t, "gpt-test", c.Model())
}
