package journal

import (
	"context"
	"errors"
	"time"
)

var ErrDisabled = errors.New("journal disabled")

// Config configures the journal.
//
// If Driver is empty or "none", journaling is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// TransferRecord is one confirmed per-tick submission.
// Keep it compact and schema-stable.
type TransferRecord struct {
	At        time.Time `json:"at"`
	Tick      uint64    `json:"tick"`
	Signature string    `json:"signature"`
	Payer     string    `json:"payer"`
	Recipient string    `json:"recipient,omitempty"`
	Total     uint64    `json:"total"`
	Platform  uint64    `json:"platform"`
	Secondary uint64    `json:"secondary"`
}

// Store is the minimal persistence API used by the engine and ops surfaces.
type Store interface {
	AppendTransfer(ctx context.Context, rec TransferRecord) error
	RecentTransfers(ctx context.Context, limit int) ([]TransferRecord, error)
	Close() error
}
