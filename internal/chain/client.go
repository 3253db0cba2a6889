package chain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	logx "flowgate/pkg/logx"
)

// Config configures the RPC client.
//
// RatePerSec caps combined blockhash fetches + submissions so a tight tick
// interval cannot hammer a public endpoint. 0 applies a default.
type Config struct {
	Endpoint   string
	Commitment rpc.CommitmentType
	RatePerSec int
	Timeout    time.Duration
}

// Client wraps the Solana JSON-RPC client used by the stream engine.
//
// Submissions are fire-and-forget: SkipPreflight is set and the node is asked
// for zero resubmission retries. The engine never polls for finality.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	limiter    *rate.Limiter
	timeout    time.Duration
	log        logx.Logger
}

func NewClient(cfg Config, log logx.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("chain: rpc endpoint is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		rpc:        rpc.New(cfg.Endpoint),
		commitment: commitment,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		timeout:    timeout,
		log:        log,
	}, nil
}

// FetchBlockhash performs one getLatestBlockhash round trip.
// It satisfies chain.FetchFunc.
func (c *Client) FetchBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return solana.Hash{}, 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, 0, err
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, 0, errors.New("chain: empty blockhash response")
	}
	return out.Value.Blockhash, out.Value.LastValidBlockHeight, nil
}

// Send submits a signed transaction without preflight simulation and without
// node-side retries.
func (c *Client) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return solana.Signature{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	maxRetries := uint(0)
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		MaxRetries:          &maxRetries,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, err
	}
	return sig, nil
}
