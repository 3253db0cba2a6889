// Package app wires flowgate's services together: config, logging, chain
// client, journal, stream engine, notifier and the debug server.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flowgate/internal/chain"
	"flowgate/internal/config"
	"flowgate/internal/eventbus"
	"flowgate/internal/journal"
	"flowgate/internal/notify"
	"flowgate/internal/ops/pprofsrv"
	"flowgate/internal/stream"
	logx "flowgate/pkg/logx"
)

// App owns the process-wide singletons. One instance per process.
type App struct {
	manager *config.Manager
	logSvc  *logx.Service
	log     logx.Logger

	bus      eventbus.Bus
	client   *chain.Client
	cache    *chain.BlockhashCache
	store    journal.Store
	engine   *stream.Engine
	notifier *notify.Service
	pprof    *pprofsrv.Service

	mu        sync.Mutex
	watchDone chan struct{}
	runCancel context.CancelFunc
}

func New(cfgPath string) (*App, error) {
	manager := config.NewManager(cfgPath)
	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logSvc, log := logx.New(logConfig(cfg))
	manager.SetLogger(log.With(logx.String("svc", "config")))
	manager.SetValidator(func(_ context.Context, next *config.Config) error {
		return config.ValidateReload(manager.Get(), next)
	})

	ccfg, err := chainConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := chain.NewClient(ccfg, log.With(logx.String("svc", "chain")))
	if err != nil {
		return nil, err
	}

	ttl, err := config.ParseDurationOrDefault("stream.blockhash_ttl", cfg.Stream.BlockhashTTL, chain.DefaultBlockhashTTL)
	if err != nil {
		return nil, err
	}
	cache := chain.NewBlockhashCache(client.FetchBlockhash, ttl, log.With(logx.String("svc", "blockhash")))

	jcfg, err := journalConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(jcfg, log.With(logx.String("svc", "journal")))
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	signer, err := loadSigner(cfg)
	if err != nil {
		return nil, err
	}
	platform, err := chain.ParseWallet(cfg.Wallet.PlatformWallet)
	if err != nil {
		return nil, fmt.Errorf("wallet.platform_wallet: %w", err)
	}
	mint, err := chain.ParseWallet(cfg.Wallet.Mint)
	if err != nil {
		return nil, fmt.Errorf("wallet.mint: %w", err)
	}

	scfg, err := streamConfig(cfg)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	var engineJournal stream.Journal
	if store != nil {
		engineJournal = store
	}
	engine := stream.New(scfg, stream.Deps{
		Signer:         signer,
		Mint:           mint,
		PlatformWallet: platform,
		Source:         cache,
		Sender:         client,
		Journal:        engineJournal,
		Bus:            bus,
		Log:            log.With(logx.String("svc", "stream")),
	})

	return &App{
		manager:  manager,
		logSvc:   logSvc,
		log:      log,
		bus:      bus,
		client:   client,
		cache:    cache,
		store:    store,
		engine:   engine,
		notifier: notify.New(notifierConfig(cfg), bus, log.With(logx.String("svc", "notify"))),
		pprof:    pprofsrv.New(pprofConfig(cfg), log.With(logx.String("svc", "pprof"))),
	}, nil
}

// Engine exposes the four-method streaming API to the hosting process.
func (a *App) Engine() *stream.Engine { return a.engine }

// Journal exposes the transfer journal (nil when disabled).
func (a *App) Journal() journal.Store { return a.store }

func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.runCancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.runCancel = cancel

	a.pprof.Start()
	if err := a.notifier.Start(runCtx); err != nil {
		// A down notifier is an ops problem, not a payment problem.
		a.log.Warn("notifier unavailable", logx.Err(err))
	}

	watchDone := make(chan struct{})
	a.watchDone = watchDone
	go func() {
		defer close(watchDone)
		_ = a.manager.Watch(runCtx)
	}()
	go a.reloadLoop(runCtx)

	cfg := a.manager.Get()
	if cfg.Stream.AutoStart {
		if err := a.engine.Start(runCtx, cfg.Stream.Payer, cfg.Stream.Recipient); err != nil {
			cancel()
			a.runCancel = nil
			return fmt.Errorf("auto-start stream: %w", err)
		}
	}

	a.log.Info("flowgate up",
		logx.String("endpoint", cfg.RPC.Endpoint),
		logx.Bool("auto_start", cfg.Stream.AutoStart))
	return nil
}

// reloadLoop applies hot-reloadable settings from committed config updates.
func (a *App) reloadLoop(ctx context.Context) {
	sub := a.manager.Subscribe(4)
	defer a.manager.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-sub:
			if !ok {
				return
			}
			a.logSvc.Apply(logConfig(cfg))
			if scfg, err := streamConfig(cfg); err == nil {
				a.engine.Apply(scfg)
			}
		}
	}
}

func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	cancel := a.runCancel
	watchDone := a.watchDone
	a.runCancel = nil
	a.watchDone = nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}

	a.engine.Stop()
	cancel()
	a.notifier.Stop()
	a.pprof.Stop(ctx)

	if watchDone != nil {
		select {
		case <-watchDone:
		case <-ctx.Done():
		case <-time.After(3 * time.Second):
		}
	}

	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("flowgate stopped")
	_ = a.logSvc.Close()
	return nil
}
