package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"flowgate/internal/chain"
	"flowgate/internal/eventbus"
	"flowgate/internal/journal"
	logx "flowgate/pkg/logx"
)

// OutcomeKind discriminates the result of one tick.
type OutcomeKind int

const (
	// OutcomeSent: the transaction was accepted by the RPC node.
	OutcomeSent OutcomeKind = iota
	// OutcomeNoBlockhash: no freshness token was obtainable.
	OutcomeNoBlockhash
	// OutcomeStaleBlockhash: submission failed because the blockhash expired.
	OutcomeStaleBlockhash
	// OutcomeFailed: any other build or submission failure.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSent:
		return "sent"
	case OutcomeNoBlockhash:
		return "no-blockhash"
	case OutcomeStaleBlockhash:
		return "stale-blockhash"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TickOutcome is the explicit result of one tick, fed to the policy below.
type TickOutcome struct {
	Kind      OutcomeKind
	Tick      uint64
	Split     chain.Split
	Signature solana.Signature
	Err       error
}

// record is the single per-tick outcome policy: log success to the ring
// (and journal/bus), invalidate the cache on staleness, drop everything else.
// Failures never stop the schedule; the next tick retries at the full rate.
func (e *Engine) record(o TickOutcome) {
	switch o.Kind {
	case OutcomeSent:
		e.recordSent(o)
	case OutcomeStaleBlockhash:
		e.source.Invalidate()
		e.log.Debug("tick dropped", logx.Uint64("tick", o.Tick), logx.String("outcome", o.Kind.String()), logx.Err(o.Err))
	case OutcomeNoBlockhash, OutcomeFailed:
		e.log.Debug("tick dropped", logx.Uint64("tick", o.Tick), logx.String("outcome", o.Kind.String()), logx.Err(o.Err))
	}
}

func (e *Engine) recordSent(o TickOutcome) {
	now := e.now()
	sig := o.Signature.String()

	e.mu.Lock()
	e.lastSig = o.Signature
	first := !e.firstConfirmed
	e.firstConfirmed = true
	payer := e.payerWallet
	recipient := e.recipientWallet
	text := fmt.Sprintf("transfer #%d: %d units (platform %d / recipient %d) sig %s",
		o.Tick, o.Split.Total, o.Split.Platform, o.Split.Recipient, shortSig(sig))
	e.logs.append(LogEntry{At: now, Text: text, TxID: sig})
	e.mu.Unlock()

	if e.journal != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := e.journal.AppendTransfer(ctx, journal.TransferRecord{
			At:        now,
			Tick:      o.Tick,
			Signature: sig,
			Payer:     payer,
			Recipient: recipient,
			Total:     o.Split.Total,
			Platform:  o.Split.Platform,
			Secondary: o.Split.Recipient,
		}); err != nil {
			e.log.Debug("journal append failed", logx.Err(err))
		}
		cancel()
	}

	if first {
		e.publish(eventbus.EventTransferConfirmed, map[string]any{
			"payer": payer,
			"sig":   sig,
			"total": o.Split.Total,
		})
	}
}

// shortSig truncates a signature for human-readable log lines.
func shortSig(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:12] + "..."
}
