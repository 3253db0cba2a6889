package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/robfig/cron/v3"

	"flowgate/internal/chain"
	"flowgate/internal/eventbus"
	logx "flowgate/pkg/logx"
)

// Deps are the engine's fixed collaborators, wired once at process start.
type Deps struct {
	// Signer is the gateway signing identity authorized to move funds out
	// of the payer's pre-approved token account.
	Signer         solana.PrivateKey
	Mint           solana.PublicKey
	PlatformWallet solana.PublicKey

	Source  BlockhashSource
	Sender  Sender
	Journal Journal // optional
	Bus     eventbus.Bus
	Log     logx.Logger
}

// Engine drives one recurring payment stream. A single instance lives for
// the process lifetime; Start/Stop only toggle its running sub-state.
type Engine struct {
	signer         solana.PrivateKey
	mint           solana.PublicKey
	platformWallet solana.PublicKey

	source  BlockhashSource
	sender  Sender
	journal Journal
	bus     eventbus.Bus
	log     logx.Logger

	guard runGuard

	// now is swappable for tests.
	now func() time.Time

	// mu guards everything below.
	mu  sync.Mutex
	cfg Config

	c       *cron.Cron
	tickCtx context.Context

	// armedInterval is the cadence the running timer actually fires at.
	// cfg.Interval may be staged to a different value by Apply; the per-tick
	// amount always follows the armed cadence.
	armedInterval time.Duration

	payerWallet     string
	recipientWallet string
	payerTA         solana.PublicKey
	platformTA      solana.PublicKey
	recipientTA     solana.PublicKey

	tickCount      uint64
	lastSig        solana.Signature
	firstConfirmed bool
	logs           *ring
}

func New(cfg Config, deps Deps) *Engine {
	cfg = cfg.withDefaults()
	log := deps.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Engine{
		signer:         deps.Signer,
		mint:           deps.Mint,
		platformWallet: deps.PlatformWallet,
		source:         deps.Source,
		sender:         deps.Sender,
		journal:        deps.Journal,
		bus:            deps.Bus,
		log:            log,
		now:            time.Now,
		cfg:            cfg,
		logs:           newRing(cfg.HistorySize),
	}
}

// Start resolves token accounts for the payer, the fixed platform recipient
// and the optional secondary recipient, clears counters and the log buffer,
// and arms the tick timer. It returns without waiting for the first tick.
//
// The passed ctx bounds the lifetime of all future ticks.
func (e *Engine) Start(ctx context.Context, payerWallet, recipientWallet string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.c != nil {
		return ErrAlreadyRunning
	}

	payer, err := chain.ParseWallet(payerWallet)
	if err != nil {
		return fmt.Errorf("resolve payer: %w", err)
	}
	payerTA, err := chain.ResolveTokenAccount(payer, e.mint)
	if err != nil {
		return fmt.Errorf("resolve payer: %w", err)
	}
	platformTA, err := chain.ResolveTokenAccount(e.platformWallet, e.mint)
	if err != nil {
		return fmt.Errorf("resolve platform: %w", err)
	}
	var recipientTA solana.PublicKey
	if recipientWallet != "" {
		recipient, err := chain.ParseWallet(recipientWallet)
		if err != nil {
			return fmt.Errorf("resolve recipient: %w", err)
		}
		recipientTA, err = chain.ResolveTokenAccount(recipient, e.mint)
		if err != nil {
			return fmt.Errorf("resolve recipient: %w", err)
		}
	}

	interval := e.cfg.Interval
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := c.AddFunc("@every "+interval.String(), func() { e.tick() }); err != nil {
		return fmt.Errorf("arm tick timer: %w", err)
	}

	e.payerWallet = payerWallet
	e.recipientWallet = recipientWallet
	e.payerTA = payerTA
	e.platformTA = platformTA
	e.recipientTA = recipientTA

	e.tickCount = 0
	e.lastSig = solana.Signature{}
	e.firstConfirmed = false
	e.logs.reset()

	e.c = c
	e.tickCtx = ctx
	e.armedInterval = interval
	c.Start()

	e.log.Info("stream started",
		logx.String("payer", payerWallet),
		logx.String("recipient", recipientWallet),
		logx.Duration("interval", interval),
		logx.Uint64("per_second", e.cfg.PerSecond))
	e.publish(eventbus.EventStreamStarted, map[string]any{
		"payer":     payerWallet,
		"recipient": recipientWallet,
	})
	return nil
}

// Stop disarms the timer and resets the running sub-state. It is a no-op on
// an idle engine. A tick already past the run guard is not cancelled and may
// still append its outcome.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.c == nil {
		return
	}
	e.c.Stop()
	e.c = nil
	e.tickCtx = nil

	ticks := e.tickCount
	e.tickCount = 0
	e.lastSig = solana.Signature{}
	e.firstConfirmed = false
	e.logs.append(LogEntry{
		At:   e.now(),
		Text: fmt.Sprintf("stream stopped after %d ticks", ticks),
	})

	e.log.Info("stream stopped", logx.Uint64("ticks", ticks), logx.String("payer", e.payerWallet))
	e.publish(eventbus.EventStreamStopped, map[string]any{
		"payer": e.payerWallet,
		"ticks": ticks,
	})
}

// Status returns a point-in-time snapshot.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Active:                 e.c != nil,
		FirstTransferConfirmed: e.firstConfirmed,
		TransferCount:          e.tickCount,
	}
	if !e.lastSig.IsZero() {
		st.LastSignature = e.lastSig.String()
	}
	return st
}

// Logs returns the buffered tick outcomes, oldest first.
func (e *Engine) Logs() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logs.snapshot()
}

// Apply updates hot-reloadable settings. Rate changes take effect on the
// next tick. An interval change is only staged: the running timer keeps its
// armed cadence, and the per-tick amount keeps following that cadence, until
// the next Start re-arms with the staged value.
func (e *Engine) Apply(cfg Config) {
	cfg = cfg.withDefaults()
	e.mu.Lock()
	if cfg.PerSecond != e.cfg.PerSecond {
		e.log.Info("stream rate updated",
			logx.Uint64("old", e.cfg.PerSecond),
			logx.Uint64("new", cfg.PerSecond))
	}
	e.cfg.PerSecond = cfg.PerSecond
	e.cfg.RefreshEvery = cfg.RefreshEvery
	e.cfg.Interval = cfg.Interval
	e.mu.Unlock()
}

func (e *Engine) publish(typ string, data any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(eventbus.Event{Type: typ, Time: e.now(), Data: data})
}
