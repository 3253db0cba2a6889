package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks a parsed config for structural problems. It is used both
// at startup and before committing a hot reload.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.RPC.Endpoint) == "" {
		return errors.New("rpc.endpoint is required")
	}
	switch strings.TrimSpace(cfg.RPC.Commitment) {
	case "", "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("rpc.commitment: unknown value %q", cfg.RPC.Commitment)
	}
	if _, err := ParseDurationField("rpc.timeout", cfg.RPC.Timeout); err != nil {
		return err
	}

	hasKey := strings.TrimSpace(cfg.Wallet.SigningKey) != ""
	hasKeyFile := strings.TrimSpace(cfg.Wallet.SigningKeyFile) != ""
	if hasKey == hasKeyFile {
		return errors.New("wallet: exactly one of signing_key and signing_key_file must be set")
	}
	if strings.TrimSpace(cfg.Wallet.PlatformWallet) == "" {
		return errors.New("wallet.platform_wallet is required")
	}
	if strings.TrimSpace(cfg.Wallet.Mint) == "" {
		return errors.New("wallet.mint is required")
	}

	if cfg.Stream.PerSecond == 0 {
		return errors.New("stream.per_second must be > 0")
	}
	interval, err := ParseDurationField("stream.interval", cfg.Stream.Interval)
	if err != nil {
		return err
	}
	// The per-tick amount is per_second times the cadence in whole seconds;
	// anything under 1s would stream zero units per tick.
	if interval > 0 && interval < time.Second {
		return errors.New("stream.interval must be at least 1s")
	}
	for path, raw := range map[string]string{
		"stream.blockhash_ttl": cfg.Stream.BlockhashTTL,
		"journal.busy_timeout": cfg.Journal.BusyTimeout,
	} {
		if _, err := ParseDurationField(path, raw); err != nil {
			return err
		}
	}
	if cfg.Stream.HistorySize < 0 {
		return errors.New("stream.history_size must be >= 0")
	}
	if cfg.Stream.AutoStart && strings.TrimSpace(cfg.Stream.Payer) == "" {
		return errors.New("stream.auto_start requires stream.payer")
	}

	if n := cfg.Notifier; n != nil && n.Enabled {
		if strings.TrimSpace(n.Token) == "" {
			return errors.New("notifier.token is required when enabled")
		}
		if n.ChatID == 0 {
			return errors.New("notifier.chat_id is required when enabled")
		}
	}
	return nil
}

// ValidateReload rejects hot changes that would require rebuilding fixed
// engine state (endpoint, signer, platform, mint). Such edits need a restart.
func ValidateReload(old, next *Config) error {
	if err := Validate(next); err != nil {
		return err
	}
	if old == nil {
		return nil
	}
	if old.RPC.Endpoint != next.RPC.Endpoint {
		return errors.New("rpc.endpoint cannot change at runtime; restart the daemon")
	}
	if old.Wallet != next.Wallet {
		return errors.New("wallet settings cannot change at runtime; restart the daemon")
	}
	return nil
}
