package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/ai"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/config"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/knowledge"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/resolver"
)

// loadCorpus reads the configured corpus or the bundled one. Any error here
// must stop the process.
func loadCorpus(path string) (*knowledge.Corpus, error) {
	if path == "" {
		return knowledge.Default()
	}
	return knowledge.Load(path)
}

// buildProviders returns providers in configured tier order. Providers
// without credentials are included but report unavailable.
func buildProviders(pc config.ProvidersConfig, log *zap.Logger) ([]ai.Provider, error) {
	out := make([]ai.Provider, 0, len(pc.Order))
	for _, name := range pc.Order {
		switch name {
		case "gemini":
			out = append(out, ai.NewGeminiClient(ai.GeminiConfig{
				APIKey:  pc.Gemini.APIKey,
				Model:   pc.Gemini.Model,
				Timeout: pc.Timeout.Duration,
			}, log))
		case "huggingface":
			out = append(out, ai.NewOpenAIClient(ai.OpenAIConfig{
				Name:    "huggingface",
				APIKey:  pc.HuggingFace.APIKey,
				BaseURL: pc.HuggingFace.BaseURL,
				Model:   pc.HuggingFace.Model,
				Timeout: pc.Timeout.Duration,
			}, log))
		case "openai":
			out = append(out, ai.NewOpenAIClient(ai.OpenAIConfig{
				Name:    "openai",
				APIKey:  pc.OpenAI.APIKey,
				BaseURL: pc.OpenAI.BaseURL,
				Model:   pc.OpenAI.Model,
				Timeout: pc.Timeout.Duration,
			}, log))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	return out, nil
}

func buildResolver(c *knowledge.Corpus, pc config.ProvidersConfig, log *zap.Logger) (*resolver.Resolver, error) {
	providers, err := buildProviders(pc, log)
	if err != nil {
		return nil, err
	}
	for i, p := range providers {
		log.Info("provider tier",
			zap.String("tier", string(resolver.ProviderTier(i+1))),
			zap.String("provider", p.Name()),
			zap.Bool("available", p.Available()),
		)
	}
	return resolver.New(knowledge.NewMatcher(c), providers, nil, log), nil
}
