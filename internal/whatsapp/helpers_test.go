package whatsapp

import (
	"context"
	"sync"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/resolver"
)

type sentText struct {
	to, text string
}

type fakeOutbound struct {
	mu     sync.Mutex
	sent   []sentText
	read   []string
	result bool
}

func (f *fakeOutbound) SendText(ctx context.Context, to string, text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentText{to: to, text: text})
	return f.result
}

func (f *fakeOutbound) MarkRead(ctx context.Context, messageID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = append(f.read, messageID)
}

func (f *fakeOutbound) Sent() []sentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentText(nil), f.sent...)
}

type fakeResolver struct {
	mu    sync.Mutex
	texts []string
	tags  []language.Tag
}

func (f *fakeResolver) Resolve(ctx context.Context, text string, tag language.Tag) resolver.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.tags = append(f.tags, tag)
	return resolver.Response{Text: "reply to " + text, Tier: resolver.TierDefault}
}

type fakeService struct {
	mu         sync.Mutex
	dispatched []InboundMessage
}

func (f *fakeService) HandleIncoming(ctx context.Context, msg InboundMessage) resolver.Response {
	return resolver.Response{}
}

func (f *fakeService) Dispatch(msg InboundMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, msg)
}

func (f *fakeService) Wait(ctx context.Context) error { return nil }
