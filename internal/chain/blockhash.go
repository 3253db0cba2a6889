package chain

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	logx "flowgate/pkg/logx"
)

// DefaultBlockhashTTL bounds how long a cached blockhash may be reused.
// Nodes accept a blockhash for roughly 60-90s; a much shorter TTL keeps
// submissions comfortably inside that window.
const DefaultBlockhashTTL = 25 * time.Second

// Blockhash is one cached freshness entry.
type Blockhash struct {
	Value                solana.Hash
	LastValidBlockHeight uint64
	FetchedAt            time.Time
}

// FetchFunc performs one network fetch of a recent blockhash.
type FetchFunc func(ctx context.Context) (solana.Hash, uint64, error)

// BlockhashCache caches a recent blockhash with a TTL.
//
// Get never returns an entry older than the TTL: an expired (or missing)
// entry triggers exactly one synchronous refetch before returning.
type BlockhashCache struct {
	mu    sync.Mutex
	fetch FetchFunc
	ttl   time.Duration
	log   logx.Logger

	cur *Blockhash

	// now is swappable for tests.
	now func() time.Time
}

func NewBlockhashCache(fetch FetchFunc, ttl time.Duration, log logx.Logger) *BlockhashCache {
	if ttl <= 0 {
		ttl = DefaultBlockhashTTL
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &BlockhashCache{fetch: fetch, ttl: ttl, log: log, now: time.Now}
}

// Get returns the cached blockhash if it is still fresh, refetching otherwise.
func (c *BlockhashCache) Get(ctx context.Context) (Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.cur != nil && now.Sub(c.cur.FetchedAt) < c.ttl {
		return *c.cur, nil
	}

	hash, lastValid, err := c.fetch(ctx)
	if err != nil {
		return Blockhash{}, err
	}
	c.cur = &Blockhash{Value: hash, LastValidBlockHeight: lastValid, FetchedAt: now}
	c.log.Debug("blockhash refreshed",
		logx.String("blockhash", hash.String()),
		logx.Uint64("last_valid_height", lastValid))
	return *c.cur, nil
}

// Invalidate clears the cache so the next Get refetches.
func (c *BlockhashCache) Invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}
