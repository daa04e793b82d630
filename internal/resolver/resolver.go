// Package resolver turns a message into exactly one reply by walking an
// ordered chain of tiers: knowledge base, generative providers, default text.
package resolver

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/ai"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

type Tier string

const (
	TierKnowledgeBase Tier = "knowledge_base"
	TierDefault       Tier = "default"
)

// ProviderTier is the tag of the n-th configured provider, 1-based.
func ProviderTier(n int) Tier { return Tier("provider_" + strconv.Itoa(n)) }

// Response is the single reply produced for an inbound message.
type Response struct {
	Text     string
	Tier     Tier
	Provider string // set for provider tiers only
}

// KnowledgeBase is the deterministic first tier.
type KnowledgeBase interface {
	Match(text string, tag language.Tag) (string, bool)
}

type Resolver struct {
	kb        KnowledgeBase
	providers []ai.Provider
	defaults  map[language.Tag]string
	log       *zap.Logger
}

// New builds a resolver. Provider order is tier order. A nil defaults map
// uses DefaultReplies.
func New(kb KnowledgeBase, providers []ai.Provider, defaults map[language.Tag]string, log *zap.Logger) *Resolver {
	if defaults == nil {
		defaults = DefaultReplies
	}
	return &Resolver{kb: kb, providers: providers, defaults: defaults, log: log.Named("resolver")}
}

// Resolve never fails: the default tier always answers.
func (r *Resolver) Resolve(ctx context.Context, text string, tag language.Tag) Response {
	if r.kb != nil {
		if reply, ok := r.kb.Match(text, tag); ok && reply != "" {
			return Response{Text: reply, Tier: TierKnowledgeBase}
		}
	}

	for i, p := range r.providers {
		if !p.Available() {
			continue
		}
		reply, ok := r.respond(ctx, p, text, tag)
		if ok && strings.TrimSpace(reply) != "" {
			return Response{Text: reply, Tier: ProviderTier(i + 1), Provider: p.Name()}
		}
		r.log.Warn("provider produced no result, falling through",
			zap.String("provider", p.Name()),
			zap.String("tier", string(ProviderTier(i+1))),
		)
	}

	return Response{Text: r.defaultReply(tag), Tier: TierDefault}
}

// respond isolates a provider so a panic counts as no result.
func (r *Resolver) respond(ctx context.Context, p ai.Provider, text string, tag language.Tag) (reply string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("provider panicked", zap.String("provider", p.Name()), zap.Any("panic", rec))
			reply, ok = "", false
		}
	}()
	return p.Respond(ctx, text, tag)
}

func (r *Resolver) defaultReply(tag language.Tag) string {
	if s := r.defaults[tag]; s != "" {
		return s
	}
	if s := r.defaults[language.Baseline]; s != "" {
		return s
	}
	return DefaultReplies[language.Baseline]
}
