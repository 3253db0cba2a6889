package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
rpc:
  endpoint: https://api.devnet.solana.com
  commitment: confirmed
  rate_per_sec: 5
wallet:
  signing_key: test-key
  platform_wallet: platform-wallet
  mint: token-mint
stream:
  per_second: 1000000
  interval: 5s
  blockhash_ttl: 25s
journal:
  driver: sqlite
  path: ./flowgate.db
logging:
  level: debug
`

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	m := NewManager(writeConfig(t, "config.yaml", validYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RPC.Endpoint != "https://api.devnet.solana.com" {
		t.Fatalf("endpoint = %q", cfg.RPC.Endpoint)
	}
	if cfg.Stream.PerSecond != 1_000_000 {
		t.Fatalf("per_second = %d", cfg.Stream.PerSecond)
	}
	if cfg.Stream.Interval != "5s" || cfg.Stream.BlockhashTTL != "25s" {
		t.Fatalf("durations = %q / %q", cfg.Stream.Interval, cfg.Stream.BlockhashTTL)
	}
	if cfg.Journal.Driver != "sqlite" {
		t.Fatalf("journal driver = %q", cfg.Journal.Driver)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get must return the committed config")
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	m := NewManager(writeConfig(t, "config.json", `{
		"rpc": {"endpoint": "http://localhost:8899"},
		"wallet": {"signing_key": "k", "platform_wallet": "p", "mint": "m"},
		"stream": {"per_second": 42}
	}`))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Stream.PerSecond != 42 {
		t.Fatalf("per_second = %d", cfg.Stream.PerSecond)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	m := NewManager(writeConfig(t, "config.json", `{"rpc": {"endpoint": "x"}, "surprise": true}`))
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		return &Config{
			RPC:    RPCConfig{Endpoint: "http://localhost:8899"},
			Wallet: WalletConfig{SigningKey: "k", PlatformWallet: "p", Mint: "m"},
			Stream: StreamConfig{PerSecond: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing endpoint", mutate: func(c *Config) { c.RPC.Endpoint = "" }, wantErr: true},
		{name: "bad commitment", mutate: func(c *Config) { c.RPC.Commitment = "instant" }, wantErr: true},
		{name: "no signing key", mutate: func(c *Config) { c.Wallet.SigningKey = "" }, wantErr: true},
		{name: "both key sources", mutate: func(c *Config) { c.Wallet.SigningKeyFile = "f" }, wantErr: true},
		{name: "missing mint", mutate: func(c *Config) { c.Wallet.Mint = "" }, wantErr: true},
		{name: "zero rate", mutate: func(c *Config) { c.Stream.PerSecond = 0 }, wantErr: true},
		{name: "bad interval", mutate: func(c *Config) { c.Stream.Interval = "soon" }, wantErr: true},
		{name: "sub-second interval", mutate: func(c *Config) { c.Stream.Interval = "500ms" }, wantErr: true},
		{name: "one second interval", mutate: func(c *Config) { c.Stream.Interval = "1s" }},
		{name: "auto start without payer", mutate: func(c *Config) { c.Stream.AutoStart = true }, wantErr: true},
		{name: "auto start with payer", mutate: func(c *Config) { c.Stream.AutoStart = true; c.Stream.Payer = "w" }},
		{name: "notifier without token", mutate: func(c *Config) { c.Notifier = &NotifierConfig{Enabled: true, ChatID: 1} }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateReload(t *testing.T) {
	t.Parallel()

	old := &Config{
		RPC:    RPCConfig{Endpoint: "http://localhost:8899"},
		Wallet: WalletConfig{SigningKey: "k", PlatformWallet: "p", Mint: "m"},
		Stream: StreamConfig{PerSecond: 1},
	}

	next := *old
	next.Stream.PerSecond = 2
	if err := ValidateReload(old, &next); err != nil {
		t.Fatalf("rate change must be allowed: %v", err)
	}

	next = *old
	next.RPC.Endpoint = "http://other:8899"
	if err := ValidateReload(old, &next); err == nil {
		t.Fatal("endpoint change must be rejected")
	}

	next = *old
	next.Wallet.Mint = "other-mint"
	if err := ValidateReload(old, &next); err == nil {
		t.Fatal("wallet change must be rejected")
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()

	if d, err := ParseDurationField("x", "  "); err != nil || d != 0 {
		t.Fatalf("empty = (%v, %v)", d, err)
	}
	if _, err := ParseDurationField("x", "5x"); err == nil {
		t.Fatal("expected error for bad unit")
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
	if d, err := ParseDurationOrDefault("x", "", 25); err != nil || d != 25 {
		t.Fatalf("default = (%v, %v)", d, err)
	}
}
