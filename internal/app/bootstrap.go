package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"flowgate/internal/chain"
	"flowgate/internal/config"
	"flowgate/internal/journal"
	"flowgate/internal/notify"
	"flowgate/internal/ops/pprofsrv"
	"flowgate/internal/stream"
	logx "flowgate/pkg/logx"
)

func logConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func chainConfig(cfg *config.Config) (chain.Config, error) {
	timeout, err := config.ParseDurationField("rpc.timeout", cfg.RPC.Timeout)
	if err != nil {
		return chain.Config{}, err
	}
	var commitment rpc.CommitmentType
	switch strings.TrimSpace(cfg.RPC.Commitment) {
	case "", "confirmed":
		commitment = rpc.CommitmentConfirmed
	case "processed":
		commitment = rpc.CommitmentProcessed
	case "finalized":
		commitment = rpc.CommitmentFinalized
	default:
		return chain.Config{}, fmt.Errorf("rpc.commitment: unknown value %q", cfg.RPC.Commitment)
	}
	return chain.Config{
		Endpoint:   cfg.RPC.Endpoint,
		Commitment: commitment,
		RatePerSec: cfg.RPC.RatePerSec,
		Timeout:    timeout,
	}, nil
}

func streamConfig(cfg *config.Config) (stream.Config, error) {
	interval, err := config.ParseDurationOrDefault("stream.interval", cfg.Stream.Interval, 5*time.Second)
	if err != nil {
		return stream.Config{}, err
	}
	return stream.Config{
		Interval:     interval,
		PerSecond:    cfg.Stream.PerSecond,
		RefreshEvery: cfg.Stream.RefreshEvery,
		HistorySize:  cfg.Stream.HistorySize,
	}, nil
}

func journalConfig(cfg *config.Config) (journal.Config, error) {
	busy, err := config.ParseDurationField("journal.busy_timeout", cfg.Journal.BusyTimeout)
	if err != nil {
		return journal.Config{}, err
	}
	return journal.Config{
		Driver:      cfg.Journal.Driver,
		Path:        cfg.Journal.Path,
		BusyTimeout: busy,
	}, nil
}

func notifierConfig(cfg *config.Config) notify.Config {
	n := cfg.Notifier
	if n == nil {
		return notify.Config{}
	}
	return notify.Config{
		Enabled:    n.Enabled,
		Token:      n.Token,
		ChatID:     n.ChatID,
		RatePerSec: n.RatePerSec,
		QueueSize:  n.QueueSize,
	}
}

func pprofConfig(cfg *config.Config) pprofsrv.Config {
	p := cfg.Pprof
	if p == nil {
		return pprofsrv.Config{}
	}
	return pprofsrv.Config{
		Enabled:       p.Enabled,
		Addr:          p.Addr,
		Token:         p.Token,
		AllowInsecure: p.AllowInsecure,
	}
}

// loadSigner reads the gateway signing key from config (inline or key file).
func loadSigner(cfg *config.Config) (solana.PrivateKey, error) {
	raw := strings.TrimSpace(cfg.Wallet.SigningKey)
	if raw == "" {
		b, err := os.ReadFile(cfg.Wallet.SigningKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read signing key file: %w", err)
		}
		raw = strings.TrimSpace(string(b))
	}
	key, err := solana.PrivateKeyFromBase58(raw)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	return key, nil
}
