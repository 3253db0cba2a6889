package chain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/memo"
	"github.com/gagliardetto/solana-go/programs/token"
)

// platformShareBps is the platform's cut when a secondary recipient is
// present: 10%, floored by integer division. Without a recipient the platform
// keeps the full tick amount.
const platformShareBps = 1_000

// memoPrefix tags every streamed transaction. The timestamp suffix makes
// otherwise-identical consecutive ticks distinct so the network does not
// reject them as duplicates.
const memoPrefix = "flow402x-"

// Split is the per-tick amount division in base token units.
type Split struct {
	Total     uint64
	Platform  uint64
	Recipient uint64
}

// SplitAmount divides a tick total between the platform and an optional
// secondary recipient. Platform share is floored; the recipient gets the
// exact remainder, so Platform+Recipient == Total always holds.
func SplitAmount(total uint64, hasRecipient bool) Split {
	if !hasRecipient {
		return Split{Total: total, Platform: total}
	}
	platform := total * platformShareBps / 10_000
	return Split{Total: total, Platform: platform, Recipient: total - platform}
}

// TransferParams carries everything BuildTransfer needs for one tick.
type TransferParams struct {
	Payer solana.PrivateKey

	PayerTokenAccount    solana.PublicKey
	PlatformTokenAccount solana.PublicKey

	// RecipientTokenAccount is zero when the stream has no secondary
	// recipient; Split.Recipient must then be zero as well.
	RecipientTokenAccount solana.PublicKey

	Split     Split
	Blockhash solana.Hash
	At        time.Time
}

// BuildTransfer assembles and signs one streaming payment transaction:
// one or two SPL token transfers followed by a uniqueness memo.
func BuildTransfer(p TransferParams) (*solana.Transaction, error) {
	owner := p.Payer.PublicKey()

	var instrs []solana.Instruction
	if p.RecipientTokenAccount.IsZero() {
		instrs = append(instrs, token.NewTransferInstruction(
			p.Split.Platform,
			p.PayerTokenAccount,
			p.PlatformTokenAccount,
			owner,
			nil,
		).Build())
	} else {
		instrs = append(instrs,
			token.NewTransferInstruction(
				p.Split.Platform,
				p.PayerTokenAccount,
				p.PlatformTokenAccount,
				owner,
				nil,
			).Build(),
			token.NewTransferInstruction(
				p.Split.Recipient,
				p.PayerTokenAccount,
				p.RecipientTokenAccount,
				owner,
				nil,
			).Build(),
		)
	}
	instrs = append(instrs, memo.NewMemoInstruction(MemoPayload(p.At), owner).Build())

	tx, err := solana.NewTransaction(instrs, p.Blockhash, solana.TransactionPayer(owner))
	if err != nil {
		return nil, fmt.Errorf("build transfer: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner) {
			return &p.Payer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transfer: %w", err)
	}
	return tx, nil
}

// MemoPayload renders the per-tick uniqueness marker.
func MemoPayload(at time.Time) []byte {
	return []byte(memoPrefix + strconv.FormatInt(at.UnixMilli(), 10))
}
