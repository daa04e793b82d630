package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

const HuggingFaceBaseURL = "https://router.huggingface.co/v1"

// OpenAIConfig describes any OpenAI-compatible chat completion endpoint.
// An empty APIKey leaves the client unavailable.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClient talks to OpenAI itself or to a compatible router such as
// Hugging Face's inference router.
type OpenAIClient struct {
	name   string
	client *openai.Client
	model  string
	log    *zap.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, log *zap.Logger) *OpenAIClient {
	c := &OpenAIClient{name: cfg.Name, model: cfg.Model, log: log.Named(cfg.Name)}
	if strings.TrimSpace(cfg.APIKey) == "" {
		c.log.Warn("api key not set, provider disabled")
		return c
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if c.model == "" {
		c.model = openai.GPT4oMini
	}
	c.client = openai.NewClientWithConfig(oc)
	return c
}

func (c *OpenAIClient) Name() string { return c.name }

func (c *OpenAIClient) Available() bool { return c.client != nil }

func (c *OpenAIClient) Respond(ctx context.Context, text string, tag language.Tag) (string, bool) {
	if c.client == nil {
		return "", false
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Instructions(tag)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		c.log.Warn("chat completion failed", zap.Error(err))
		return "", false
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("empty choices")
		return "", false
	}

	raw := resp.Choices[0].Message.Content
	c.log.Debug("raw response", zap.String("text", short(raw)))

	reply := Sanitize(raw)
	if reply == "" {
		c.log.Warn("empty response after sanitizing")
		return "", false
	}
	return reply, true
}
