package config

// Config is flowgate's on-disk configuration (JSON or YAML).
//
// All duration fields are Go duration strings (e.g. "5s", "25s", "1m").
type Config struct {
	RPC     RPCConfig     `json:"rpc"`
	Wallet  WalletConfig  `json:"wallet"`
	Stream  StreamConfig  `json:"stream"`
	Journal JournalConfig `json:"journal,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty"`

	Notifier *NotifierConfig `json:"notifier,omitempty"`
	Pprof    *PprofConfig    `json:"pprof,omitempty"`
}

// RPCConfig points at the ledger RPC endpoint.
type RPCConfig struct {
	Endpoint   string `json:"endpoint"`
	Commitment string `json:"commitment,omitempty"`   // "processed" | "confirmed" | "finalized"
	RatePerSec int    `json:"rate_per_sec,omitempty"` // caps fetches + submissions
	Timeout    string `json:"timeout,omitempty"`
}

// WalletConfig holds the gateway signing identity and the fixed platform
// recipient. Exactly one of SigningKey / SigningKeyFile must be set.
type WalletConfig struct {
	// SigningKey is the gateway signer's base58 private key. Do not log.
	SigningKey string `json:"signing_key,omitempty"`
	// SigningKeyFile points at a file containing the base58 key.
	SigningKeyFile string `json:"signing_key_file,omitempty"`

	PlatformWallet string `json:"platform_wallet"`
	Mint           string `json:"mint"`
}

// StreamConfig controls the scheduling engine.
//
// PerSecond is hot-reloadable; Interval changes apply on the next start.
type StreamConfig struct {
	PerSecond    uint64 `json:"per_second"`
	Interval     string `json:"interval,omitempty"`      // default "5s"
	RefreshEvery uint64 `json:"refresh_every,omitempty"` // default 10 ticks
	HistorySize  int    `json:"history_size,omitempty"`  // default 200
	BlockhashTTL string `json:"blockhash_ttl,omitempty"` // default "25s"

	// AutoStart begins streaming to Payer/Recipient as soon as the daemon
	// is up. The control plane consuming the engine API stays external.
	AutoStart bool   `json:"auto_start,omitempty"`
	Payer     string `json:"payer,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// JournalConfig controls the optional transfer journal.
//
// Example:
//
//	"journal": { "driver": "sqlite", "path": "./flowgate.db" }
type JournalConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"`
	Console *bool         `json:"console,omitempty"` // pointer: omitted defaults to true
	File    FileLogConfig `json:"file,omitempty"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// NotifierConfig controls the optional Telegram ops notifier.
type NotifierConfig struct {
	Enabled    bool   `json:"enabled"`
	Token      string `json:"token,omitempty"` // bot token; do not log
	ChatID     int64  `json:"chat_id,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
	QueueSize  int    `json:"queue_size,omitempty"`
}

// PprofConfig controls the optional pprof HTTP server.
//
// Security note:
//   - Prefer binding to localhost (e.g. "127.0.0.1:6060").
//   - If you bind to a non-loopback address, set a token or explicitly
//     allow_insecure.
type PprofConfig struct {
	Enabled       bool   `json:"enabled"`
	Addr          string `json:"addr,omitempty"`  // default: "127.0.0.1:6060"
	Token         string `json:"token,omitempty"` // optional bearer token (do not log)
	AllowInsecure bool   `json:"allow_insecure,omitempty"`
}

// ConsoleEnabled resolves the console sink default (on unless disabled).
func (l LoggingConfig) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}
