// Package notify pushes stream lifecycle events to an operator Telegram
// chat. It is send-only: no poller, no command handling. Delivery is
// best-effort and rate limited; a down notifier never affects the engine.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"
	"golang.org/x/time/rate"

	"flowgate/internal/eventbus"
	logx "flowgate/pkg/logx"
)

type Config struct {
	Enabled    bool
	Token      string
	ChatID     int64
	RatePerSec int
	QueueSize  int
}

type Service struct {
	cfg Config
	log logx.Logger
	bus eventbus.Bus

	bot     *tele.Bot
	limiter *rate.Limiter

	mu     sync.Mutex
	cancel context.CancelFunc
	unsub  func()
	done   chan struct{}
}

func New(cfg Config, bus eventbus.Bus, log logx.Logger) *Service {
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		bus:     bus,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

func (s *Service) Enabled() bool { return s.cfg.Enabled }

// Start connects the bot and begins draining bus events.
func (s *Service) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	bot, err := tele.NewBot(tele.Settings{Token: s.cfg.Token})
	if err != nil {
		return fmt.Errorf("notify: connect bot: %w", err)
	}
	s.bot = bot

	runCtx, cancel := context.WithCancel(ctx)
	ch, unsub := s.bus.Subscribe(s.cfg.QueueSize)
	done := make(chan struct{})

	s.cancel = cancel
	s.unsub = unsub
	s.done = done

	go func() {
		defer close(done)
		for {
			select {
			case <-runCtx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				s.deliver(runCtx, ev)
			}
		}
	}()

	s.log.Info("notifier started", logx.Int64("chat_id", s.cfg.ChatID))
	return nil
}

func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	unsub := s.unsub
	done := s.done
	s.cancel = nil
	s.unsub = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if unsub != nil {
		unsub()
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(3 * time.Second):
		}
	}
}

func (s *Service) deliver(ctx context.Context, ev eventbus.Event) {
	msg := format(ev)
	if msg == "" {
		return
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := s.bot.Send(tele.ChatID(s.cfg.ChatID), msg); err != nil {
		s.log.Warn("notifier send failed", logx.String("event", ev.Type), logx.Err(err))
	}
}

func format(ev eventbus.Event) string {
	data, _ := ev.Data.(map[string]any)
	switch ev.Type {
	case eventbus.EventStreamStarted:
		return fmt.Sprintf("▶️ stream started\npayer: %v\nrecipient: %v", data["payer"], data["recipient"])
	case eventbus.EventStreamStopped:
		return fmt.Sprintf("⏹ stream stopped\npayer: %v\nticks: %v", data["payer"], data["ticks"])
	case eventbus.EventTransferConfirmed:
		return fmt.Sprintf("✅ first transfer confirmed\npayer: %v\nsig: %v", data["payer"], data["sig"])
	default:
		return ""
	}
}
