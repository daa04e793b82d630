package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

func chatServer(t *testing.T, status int, content string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestOpenAIClientRespond(t *testing.T) {
	srv, calls := chatServer(t, http.StatusOK, "Response: Drink fluids\nand rest")
	c := NewOpenAIClient(OpenAIConfig{Name: "huggingface", APIKey: "test-key", BaseURL: srv.URL, Model: "m"}, zap.NewNop())

	require.True(t, c.Available())
	got, ok := c.Respond(context.Background(), "cold", language.English)
	require.True(t, ok)
	assert.Equal(t, "Drink fluids and rest.", got)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "huggingface", c.Name())
}

func TestOpenAIClientFailuresAreNone(t *testing.T) {
	srv, _ := chatServer(t, http.StatusInternalServerError, "")
	c := NewOpenAIClient(OpenAIConfig{Name: "openai", APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	_, ok := c.Respond(context.Background(), "cold", language.English)
	assert.False(t, ok)

	empty, _ := chatServer(t, http.StatusOK, "  \n ")
	c = NewOpenAIClient(OpenAIConfig{Name: "openai", APIKey: "test-key", BaseURL: empty.URL}, zap.NewNop())
	_, ok = c.Respond(context.Background(), "cold", language.English)
	assert.False(t, ok)
}

func TestOpenAIClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	c := NewOpenAIClient(OpenAIConfig{Name: "openai", APIKey: "test-key", BaseURL: slow.URL, Timeout: 20 * time.Millisecond}, zap.NewNop())
	_, ok := c.Respond(context.Background(), "cold", language.English)
	assert.False(t, ok)
}

func TestOpenAIClientWithoutKeyIsUnavailable(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{Name: "openai"}, zap.NewNop())
	assert.False(t, c.Available())
	_, ok := c.Respond(context.Background(), "cold", language.English)
	assert.False(t, ok)
}
