package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/journal"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/jsonrpc"
	"github.com/LeJamon/goXRPLwallet/internal/ledger/websocket"
	"github.com/LeJamon/goXRPLwallet/internal/lifecycle"
	"github.com/LeJamon/goXRPLwallet/internal/signing"
)

// seedEnv is read when no --seed flag is given, so seeds stay out of shell history.
const seedEnv = "XRPLWALLET_SEED"

func noop() error { return nil }

// openLedger connects to the configured rippled endpoint. The returned
// function releases the connection.
func openLedger(ctx context.Context) (ledger.Service, func() error, error) {
	var (
		caller ledger.Caller
		closer = noop
	)
	switch cfg.Ledger.Transport {
	case "websocket":
		ws, err := websocket.Dial(ctx, cfg.Ledger.WebSocketURL, logger)
		if err != nil {
			return nil, nil, err
		}
		caller, closer = ws, ws.Close
	default:
		caller = jsonrpc.NewClient(cfg.Ledger.URL, cfg.Ledger.Timeout, logger)
	}

	var limiter *ledger.Limiter
	if cfg.Ledger.RequestsPerSecond > 0 {
		limiter = ledger.NewLimiter(cfg.Ledger.RequestsPerSecond, cfg.Ledger.Burst)
	}
	client := ledger.NewClient(caller, limiter, logger)
	if cfg.Ledger.EntryCacheSize == 0 {
		return client, closer, nil
	}
	cached, err := ledger.NewCachedEntries(client, cfg.Ledger.EntryCacheSize)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return cached, closer, nil
}

// openJournal opens the configured journal, or returns nil when it is disabled.
func openJournal() (*journal.Journal, func() error, error) {
	if cfg.Journal.Path == "" {
		return nil, noop, nil
	}
	j, manager, err := journal.Open(cfg.Journal.Backend, cfg.Journal.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, manager.Close, nil
}

// newController wires the lifecycle controller. svc and j may be nil: without
// a ledger only sign-only transactions can be processed.
func newController(svc ledger.Service, j *journal.Journal) (*lifecycle.Controller, error) {
	var (
		l         lifecycle.Ledger
		liquidity lifecycle.Liquidity
		jr        lifecycle.Journal
	)
	if svc != nil {
		opts, err := cfg.ExchangeOptions()
		if err != nil {
			return nil, err
		}
		l = svc
		liquidity = exchange.NewEvaluator(svc, opts, logger)
	}
	if j != nil {
		jr = j
	}
	return lifecycle.New(l, signing.NewKeypairSigner(), liquidity, jr, logger, cfg.LifecycleOptions()), nil
}

func loadKeys(seed string) (signing.KeyPair, error) {
	if seed == "" {
		seed = os.Getenv(seedEnv)
	}
	if seed == "" {
		return signing.KeyPair{}, fmt.Errorf("no seed: pass --seed or set %s", seedEnv)
	}
	return signing.FromSeed(seed)
}
