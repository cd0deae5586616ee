package llm

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDefaultLogger routes the slog default logger to a buffer at debug level.
func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func jsonServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIComplete_LogsCompletion(t *testing.T) {
	logs := captureDefaultLogger(t)
	srv := jsonServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "SUMMARY: ok"}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`)

	c, err := New(Config{Provider: ProviderOpenAI, APIKey: "k", Model: "gpt-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY: ok", got)

	out := logs.String()
	assert.Contains(t, out, "llm completion finished")
	assert.Contains(t, out, "provider=openai")
	assert.Contains(t, out, "model=gpt-test")
	assert.Contains(t, out, "duration=")
	assert.Contains(t, out, "prompt_tokens=10")
	assert.Contains(t, out, "completion_tokens=5")
	assert.NotContains(t, out, "duration_ms")
}

func TestAnthropicComplete_LogsCompletion(t *testing.T) {
	logs := captureDefaultLogger(t)
	srv := jsonServer(t, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-test",
		"content": [{"type": "text", "text": "SUMMARY: "}, {"type": "text", "text": "ok"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 7, "output_tokens": 3}
	}`)

	c, err := New(Config{Provider: ProviderAnthropic, APIKey: "k", Model: "claude-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY: ok", got)

	out := logs.String()
	assert.Contains(t, out, "provider=anthropic")
	assert.Contains(t, out, "model=claude-test")
	assert.Contains(t, out, "input_tokens=7")
	assert.Contains(t, out, "output_tokens=3")
	assert.Contains(t, out, "stop_reason=end_turn")
	assert.NotContains(t, out, "duration_ms")
}
