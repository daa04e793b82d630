package whatsapp

import (
	"context"
	"time"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/contacts"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/resolver"
)

// InboundMessage is a normalized text message taken from a webhook call.
type InboundMessage struct {
	ID         string
	SenderID   string
	SenderName string // profile name, may be empty
	Text       string
	ReceivedAt time.Time
	Language   language.Tag
}

// Outbound delivers text to a WhatsApp user. Implementations never return
// transport errors; SendText reports delivery acceptance as a bool.
type Outbound interface {
	SendText(ctx context.Context, to string, text string) bool
	MarkRead(ctx context.Context, messageID string)
}

type Resolver interface {
	Resolve(ctx context.Context, text string, tag language.Tag) resolver.Response
}

type Registry interface {
	Add(ctx context.Context, c contacts.Contact) bool
}

// Service runs the reply pipeline for inbound messages.
type Service interface {
	// HandleIncoming processes one message synchronously.
	HandleIncoming(ctx context.Context, msg InboundMessage) resolver.Response
	// Dispatch processes msg in the background so the webhook can ack at once.
	Dispatch(msg InboundMessage)
	// Wait blocks until dispatched messages finish or ctx ends.
	Wait(ctx context.Context) error
}
