package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; empty uses Google's.
	BaseURL string
	Timeout time.Duration
}

// GeminiClient generates replies with Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewGeminiClient(cfg GeminiConfig, log *zap.Logger) *GeminiClient {
	c := &GeminiClient{model: cfg.Model, timeout: cfg.Timeout, log: log.Named("gemini")}
	if c.model == "" {
		c.model = DefaultGeminiModel
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		c.log.Warn("api key not set, provider disabled")
		return c
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		c.log.Warn("client init failed, provider disabled", zap.Error(err))
		return c
	}
	c.client = client
	return c
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) Available() bool { return c.client != nil }

func (c *GeminiClient) Respond(ctx context.Context, text string, tag language.Tag) (string, bool) {
	if c.client == nil {
		return "", false
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(text, tag)), &genai.GenerateContentConfig{
		MaxOutputTokens: 300,
		Temperature:     genai.Ptr[float32](0.4),
	})
	if err != nil {
		c.log.Warn("generate content failed", zap.Error(err))
		return "", false
	}

	raw := resp.Text()
	c.log.Debug("raw response", zap.String("text", short(raw)))

	reply := Sanitize(raw)
	if reply == "" {
		c.log.Warn("empty response")
		return "", false
	}
	return reply, true
}
