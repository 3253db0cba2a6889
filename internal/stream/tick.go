package stream

import (
	"context"
	"time"

	"flowgate/internal/chain"
	logx "flowgate/pkg/logx"
)

// tick executes one transfer attempt. It runs on a cron goroutine; the run
// guard keeps at most one tick in flight.
func (e *Engine) tick() {
	if !e.guard.tryAcquire() {
		e.log.Debug("tick overlap, skipping")
		return
	}
	defer e.guard.release()

	e.mu.Lock()
	e.tickCount++
	seq := e.tickCount
	cfg := e.cfg
	armed := e.armedInterval
	ctx := e.tickCtx
	payerTA := e.payerTA
	platformTA := e.platformTA
	recipientTA := e.recipientTA
	e.mu.Unlock()

	if ctx == nil {
		// Stopped between the timer firing and the guard; finish the tick
		// anyway, matching disarm-future-firings-only semantics.
		ctx = context.Background()
	}

	// Defensive refresh against silent staleness.
	if seq%cfg.RefreshEvery == 0 {
		e.source.Invalidate()
	}

	bh, err := e.source.Get(ctx)
	if err != nil {
		e.source.Invalidate()
		e.record(TickOutcome{Kind: OutcomeNoBlockhash, Tick: seq, Err: err})
		return
	}

	// The amount follows the cadence the timer was armed with, not a staged
	// interval, so the effective rate always matches PerSecond.
	total := cfg.PerSecond * uint64(armed/time.Second)
	split := chain.SplitAmount(total, !recipientTA.IsZero())

	tx, err := chain.BuildTransfer(chain.TransferParams{
		Payer:                 e.signer,
		PayerTokenAccount:     payerTA,
		PlatformTokenAccount:  platformTA,
		RecipientTokenAccount: recipientTA,
		Split:                 split,
		Blockhash:             bh.Value,
		At:                    e.now(),
	})
	if err != nil {
		e.record(TickOutcome{Kind: OutcomeFailed, Tick: seq, Split: split, Err: err})
		return
	}

	sig, err := e.sender.Send(ctx, tx)
	if err != nil {
		kind := OutcomeFailed
		if chain.IsStaleBlockhash(err) {
			kind = OutcomeStaleBlockhash
		}
		e.record(TickOutcome{Kind: kind, Tick: seq, Split: split, Err: err})
		return
	}

	e.log.Debug("tick submitted",
		logx.Uint64("tick", seq),
		logx.Uint64("total", split.Total),
		logx.String("sig", sig.String()))
	e.record(TickOutcome{Kind: OutcomeSent, Tick: seq, Split: split, Signature: sig})
}
