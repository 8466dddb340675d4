package config

import "github.com/spf13/viper"

// setDefaults sets all default values. The exchange and lifecycle values
// match exchange.DefaultOptions and lifecycle.DefaultOptions.
func setDefaults(v *viper.Viper) {
	// Ledger defaults (public mainnet cluster)
	v.SetDefault("ledger.transport", "jsonrpc")
	v.SetDefault("ledger.url", "https://s1.ripple.com:51234/")
	v.SetDefault("ledger.websocket_url", "wss://s1.ripple.com/")
	v.SetDefault("ledger.requests_per_second", 10)
	v.SetDefault("ledger.burst", 5)
	v.SetDefault("ledger.timeout", "15s")
	v.SetDefault("ledger.entry_cache_size", 1024)

	// Exchange defaults
	v.SetDefault("exchange.max_spread_percent", "4")
	v.SetDefault("exchange.max_slippage_percent", "3")
	v.SetDefault("exchange.book_limit", 50)
	v.SetDefault("exchange.init_attempts", 3)
	v.SetDefault("exchange.init_backoff", "500ms")

	// Lifecycle defaults
	v.SetDefault("lifecycle.submit_retries", 3)
	v.SetDefault("lifecycle.submit_backoff", "1s")
	v.SetDefault("lifecycle.poll_interval", "4s")
	v.SetDefault("lifecycle.verify_timeout", "1m")
	v.SetDefault("lifecycle.fee", "12")
	v.SetDefault("lifecycle.ledger_offset", 20)

	// Journal defaults
	v.SetDefault("journal.backend", "pebble")
	v.SetDefault("journal.path", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
