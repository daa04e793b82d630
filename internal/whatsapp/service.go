package whatsapp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/contacts"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/resolver"
)

// DefaultProcessTimeout bounds one dispatched message end to end.
const DefaultProcessTimeout = 60 * time.Second

type service struct {
	resolver Resolver
	registry Registry
	outbound Outbound
	timeout  time.Duration
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewService(res Resolver, registry Registry, outbound Outbound, timeout time.Duration, log *zap.Logger) Service {
	if timeout <= 0 {
		timeout = DefaultProcessTimeout
	}
	return &service{
		resolver: res,
		registry: registry,
		outbound: outbound,
		timeout:  timeout,
		log:      log.Named("svc"),
	}
}

func (s *service) HandleIncoming(ctx context.Context, msg InboundMessage) resolver.Response {
	log := s.log.With(
		zap.String("message_id", msg.ID),
		zap.String("from", msg.SenderID),
		zap.String("lang", string(msg.Language)),
	)
	log.Info("new message", zap.String("name", msg.SenderName), zap.String("text", short(msg.Text)))

	s.outbound.MarkRead(ctx, msg.ID)
	s.registry.Add(ctx, contacts.Contact(msg.SenderID))

	resp := s.resolver.Resolve(ctx, msg.Text, msg.Language)
	log.Info("resolved",
		zap.String("tier", string(resp.Tier)),
		zap.String("provider", resp.Provider),
		zap.String("reply", short(resp.Text)),
	)

	if !s.outbound.SendText(ctx, msg.SenderID, resp.Text) {
		log.Warn("reply not delivered")
	}
	return resp
}

func (s *service) Dispatch(msg InboundMessage) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("pipeline panicked", zap.String("message_id", msg.ID), zap.Any("panic", rec))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.HandleIncoming(ctx, msg)
	}()
}

func (s *service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
