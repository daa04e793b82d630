package ai

import (
	"context"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

// Provider is a generative text backend used as a fallback tier.
// Respond reports ok=false for any failure; callers just move on.
type Provider interface {
	Name() string
	Available() bool
	Respond(ctx context.Context, text string, tag language.Tag) (reply string, ok bool)
}
