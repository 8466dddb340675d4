package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/lifecycle"
)

// Config represents the complete xrplwallet configuration
type Config struct {
	Ledger    LedgerConfig    `toml:"ledger" mapstructure:"ledger"`
	Exchange  ExchangeConfig  `toml:"exchange" mapstructure:"exchange"`
	Lifecycle LifecycleConfig `toml:"lifecycle" mapstructure:"lifecycle"`
	Journal   JournalConfig   `toml:"journal" mapstructure:"journal"`
	Log       LogConfig       `toml:"log" mapstructure:"log"`

	configPath string `toml:"-" mapstructure:"-"`
}

// LedgerConfig represents the [ledger] section
// Selects the rippled endpoint and how hard the wallet may hit it
type LedgerConfig struct {
	// Transport is "jsonrpc" or "websocket".
	Transport         string        `toml:"transport" mapstructure:"transport"`
	URL               string        `toml:"url" mapstructure:"url"`
	WebSocketURL      string        `toml:"websocket_url" mapstructure:"websocket_url"`
	RequestsPerSecond float64       `toml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `toml:"burst" mapstructure:"burst"`
	Timeout           time.Duration `toml:"timeout" mapstructure:"timeout"`
	EntryCacheSize    int           `toml:"entry_cache_size" mapstructure:"entry_cache_size"`
}

// ExchangeConfig represents the [exchange] section
// Thresholds used to grade order book liquidity
type ExchangeConfig struct {
	MaxSpreadPercent   string        `toml:"max_spread_percent" mapstructure:"max_spread_percent"`
	MaxSlippagePercent string        `toml:"max_slippage_percent" mapstructure:"max_slippage_percent"`
	BookLimit          uint32        `toml:"book_limit" mapstructure:"book_limit"`
	InitAttempts       int           `toml:"init_attempts" mapstructure:"init_attempts"`
	InitBackoff        time.Duration `toml:"init_backoff" mapstructure:"init_backoff"`
}

// LifecycleConfig represents the [lifecycle] section
type LifecycleConfig struct {
	SubmitRetries int           `toml:"submit_retries" mapstructure:"submit_retries"`
	SubmitBackoff time.Duration `toml:"submit_backoff" mapstructure:"submit_backoff"`
	PollInterval  time.Duration `toml:"poll_interval" mapstructure:"poll_interval"`
	VerifyTimeout time.Duration `toml:"verify_timeout" mapstructure:"verify_timeout"`
	Fee           string        `toml:"fee" mapstructure:"fee"`
	LedgerOffset  uint32        `toml:"ledger_offset" mapstructure:"ledger_offset"`
}

// JournalConfig represents the [journal] section
// An empty path disables the journal
type JournalConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

// GetConfigPath returns the path to the configuration file, empty when the
// configuration came from defaults and environment only
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ExchangeOptions converts the [exchange] section into evaluator options
func (c *Config) ExchangeOptions() (exchange.Options, error) {
	spread, err := decimal.NewFromString(c.Exchange.MaxSpreadPercent)
	if err != nil {
		return exchange.Options{}, fmt.Errorf("invalid max_spread_percent %q: %w", c.Exchange.MaxSpreadPercent, err)
	}
	slippage, err := decimal.NewFromString(c.Exchange.MaxSlippagePercent)
	if err != nil {
		return exchange.Options{}, fmt.Errorf("invalid max_slippage_percent %q: %w", c.Exchange.MaxSlippagePercent, err)
	}
	return exchange.Options{
		MaxSpreadPercent:   spread,
		MaxSlippagePercent: slippage,
		BookLimit:          c.Exchange.BookLimit,
		InitAttempts:       c.Exchange.InitAttempts,
		InitBackoff:        c.Exchange.InitBackoff,
	}, nil
}

// LifecycleOptions converts the [lifecycle] section into controller options
func (c *Config) LifecycleOptions() lifecycle.Options {
	return lifecycle.Options{
		SubmitRetries: c.Lifecycle.SubmitRetries,
		SubmitBackoff: c.Lifecycle.SubmitBackoff,
		PollInterval:  c.Lifecycle.PollInterval,
		VerifyTimeout: c.Lifecycle.VerifyTimeout,
		Fee:           c.Lifecycle.Fee,
		LedgerOffset:  c.Lifecycle.LedgerOffset,
	}
}

// SlogLevel returns the configured log level
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
