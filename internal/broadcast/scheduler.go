// Package broadcast sends one randomly chosen health alert per day to every
// registered contact.
package broadcast

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Vovarama1992/whatsapp-health-bot/internal/contacts"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/knowledge"
	"github.com/Vovarama1992/whatsapp-health-bot/internal/language"
)

const (
	DefaultSchedule  = "0 9 * * *"
	DefaultTimezone  = "Asia/Kolkata"
	DefaultSendDelay = time.Second
)

type Sender interface {
	SendText(ctx context.Context, to string, text string) bool
}

type Audience interface {
	All() []contacts.Contact
}

type Config struct {
	// Schedule is a standard 5-field cron expression or descriptor.
	Schedule  string
	Location  *time.Location
	SendDelay time.Duration
}

// Report summarizes one fan-out run.
type Report struct {
	RunID     string
	Alert     int
	Attempted int
	Delivered int
}

type Scheduler struct {
	cron     *cron.Cron
	audience Audience
	sender   Sender
	alerts   []knowledge.Alert
	delay    time.Duration
	pick     func(n int) int
	log      *zap.Logger
}

func New(cfg Config, audience Audience, sender Sender, alerts []knowledge.Alert, log *zap.Logger) (*Scheduler, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SendDelay < 0 {
		cfg.SendDelay = 0
	}

	s := &Scheduler{
		audience: audience,
		sender:   sender,
		alerts:   alerts,
		delay:    cfg.SendDelay,
		pick:     rand.IntN,
		log:      log.Named("broadcast"),
	}

	cl := cronLogger{s.log.Sugar()}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(cfg.Schedule, func() {
		s.log.Info("scheduled alert triggered")
		s.RunOnce(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("broadcast: bad schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info("alerts scheduled", zap.Time("next", e.Next))
	}
}

// Stop prevents new runs. The returned context is done once an in-flight
// run has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce sends one random alert to every contact. Per-contact failures are
// counted, not returned.
func (s *Scheduler) RunOnce(ctx context.Context) Report {
	rep := Report{RunID: uuid.NewString(), Alert: -1}
	log := s.log.With(zap.String("run_id", rep.RunID))

	audience := s.audience.All()
	if len(audience) == 0 {
		log.Info("no contacts registered for alerts")
		return rep
	}
	if len(s.alerts) == 0 {
		log.Warn("alert pool is empty")
		return rep
	}

	rep.Alert = s.pick(len(s.alerts))
	text := s.alerts[rep.Alert].Text(language.Baseline)

	for i, c := range audience {
		if i > 0 && !s.wait(ctx) {
			log.Warn("fan-out interrupted", zap.Int("remaining", len(audience)-i))
			break
		}
		rep.Attempted++
		if s.sender.SendText(ctx, string(c), text) {
			rep.Delivered++
		} else {
			log.Warn("alert not delivered", zap.String("contact", string(c)))
		}
	}

	log.Info("alerts sent",
		zap.Int("alert", rep.Alert),
		zap.Int("attempted", rep.Attempted),
		zap.Int("delivered", rep.Delivered),
	)
	return rep
}

func (s *Scheduler) wait(ctx context.Context) bool {
	if s.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
