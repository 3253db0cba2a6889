package stream

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"flowgate/internal/chain"
	"flowgate/internal/journal"
)

// Config controls tick cadence and bookkeeping.
//
// PerSecond is the base rate in token base units; each tick moves
// PerSecond * Interval-in-seconds units.
type Config struct {
	Interval     time.Duration
	PerSecond    uint64
	RefreshEvery uint64
	HistorySize  int
}

func (c Config) withDefaults() Config {
	// Amounts are computed in whole seconds of cadence; a sub-second
	// interval would move zero units per tick, so it is treated as unset.
	if c.Interval < time.Second {
		c.Interval = 5 * time.Second
	}
	if c.RefreshEvery == 0 {
		c.RefreshEvery = 10
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 200
	}
	return c
}

// Status is the engine snapshot exposed to the hosting process.
type Status struct {
	Active                 bool
	FirstTransferConfirmed bool
	TransferCount          uint64
	LastSignature          string
}

// LogEntry is one human-readable tick outcome.
type LogEntry struct {
	At   time.Time
	Text string
	TxID string
}

// Sender submits a signed transaction. *chain.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// BlockhashSource yields fresh blockhashes. *chain.BlockhashCache satisfies it.
type BlockhashSource interface {
	Get(ctx context.Context) (chain.Blockhash, error)
	Invalidate()
}

// Journal persists confirmed transfers. journal.Store satisfies it.
// Journal writes are best-effort and never affect a tick's outcome.
type Journal interface {
	AppendTransfer(ctx context.Context, rec journal.TransferRecord) error
}

// runGuard is a single-slot execution guard: a timer firing that observes an
// in-flight tick is skipped instead of overlapping it.
type runGuard struct {
	mu       sync.Mutex
	inflight bool
}

func (g *runGuard) tryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight {
		return false
	}
	g.inflight = true
	return true
}

func (g *runGuard) release() {
	g.mu.Lock()
	g.inflight = false
	g.mu.Unlock()
}
