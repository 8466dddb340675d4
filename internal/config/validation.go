package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	validTransports = []string{"jsonrpc", "websocket"}
	validBackends   = []string{"pebble", "bbolt"}
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"text", "json"}
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger validation failed: %w", err)
	}
	if err := config.Exchange.Validate(); err != nil {
		return fmt.Errorf("exchange validation failed: %w", err)
	}
	if err := config.Lifecycle.Validate(); err != nil {
		return fmt.Errorf("lifecycle validation failed: %w", err)
	}
	if err := config.Journal.Validate(); err != nil {
		return fmt.Errorf("journal validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}

// Validate performs validation on the ledger configuration
func (l *LedgerConfig) Validate() error {
	if !slices.Contains(validTransports, l.Transport) {
		return fmt.Errorf("invalid transport: %s (valid options: %s)", l.Transport, strings.Join(validTransports, ", "))
	}

	// Only the selected transport needs an endpoint
	switch l.Transport {
	case "jsonrpc":
		if err := validateURL(l.URL, "http", "https"); err != nil {
			return fmt.Errorf("url: %w", err)
		}
	case "websocket":
		if err := validateURL(l.WebSocketURL, "ws", "wss"); err != nil {
			return fmt.Errorf("websocket_url: %w", err)
		}
	}

	if l.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative, got %v", l.RequestsPerSecond)
	}
	if l.RequestsPerSecond > 0 && l.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting, got %d", l.Burst)
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", l.Timeout)
	}
	if l.EntryCacheSize < 0 {
		return fmt.Errorf("entry_cache_size must be non-negative, got %d", l.EntryCacheSize)
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if !slices.Contains(schemes, u.Scheme) || u.Host == "" {
		return fmt.Errorf("endpoint %q must be a %s URL", raw, strings.Join(schemes, "/"))
	}
	return nil
}

// Validate performs validation on the exchange configuration
func (e *ExchangeConfig) Validate() error {
	for name, raw := range map[string]string{
		"max_spread_percent":   e.MaxSpreadPercent,
		"max_slippage_percent": e.MaxSlippagePercent,
	} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%s must be between 0 and 100, got %s", name, raw)
		}
	}
	if e.InitAttempts < 1 {
		return fmt.Errorf("init_attempts must be at least 1, got %d", e.InitAttempts)
	}
	if e.InitBackoff < 0 {
		return fmt.Errorf("init_backoff must be non-negative, got %s", e.InitBackoff)
	}
	return nil
}

// Validate performs validation on the lifecycle configuration
func (l *LifecycleConfig) Validate() error {
	if l.SubmitRetries < 0 {
		return fmt.Errorf("submit_retries must be non-negative, got %d", l.SubmitRetries)
	}
	if l.SubmitBackoff < 0 {
		return fmt.Errorf("submit_backoff must be non-negative, got %s", l.SubmitBackoff)
	}
	if l.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", l.PollInterval)
	}
	if l.VerifyTimeout < l.PollInterval {
		return fmt.Errorf("verify_timeout (%s) must not be shorter than poll_interval (%s)", l.VerifyTimeout, l.PollInterval)
	}
	if l.Fee != "" {
		fee, err := decimal.NewFromString(l.Fee)
		if err != nil || !fee.IsInteger() || fee.IsNegative() {
			return fmt.Errorf("fee must be a whole number of drops, got %q", l.Fee)
		}
	}
	return nil
}

// Validate performs validation on the journal configuration
func (j *JournalConfig) Validate() error {
	if !slices.Contains(validBackends, j.Backend) {
		return fmt.Errorf("invalid backend: %s (valid options: %s)", j.Backend, strings.Join(validBackends, ", "))
	}
	return nil
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("invalid level: %s", l.Level)
	}
	if !slices.Contains(validLogFormats, l.Format) {
		return fmt.Errorf("invalid format: %s (valid options: %s)", l.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}
