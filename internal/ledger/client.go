package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeJamon/goXRPLwallet/internal/metrics"
)

// maxLinePages bounds account_lines pagination.
const maxLinePages = 100

// Caller carries one API method call to a server and returns its result
// object. Transports report server errors as *Error and missing responses
// wrapped in ErrTransport.
type Caller interface {
	Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// Client implements Service over a Caller.
type Client struct {
	caller  Caller
	limiter *Limiter
	logger  *slog.Logger
}

var _ Service = (*Client)(nil)

// NewClient returns a Client. limiter may be nil.
func NewClient(caller Caller, limiter *Limiter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		caller:  caller,
		limiter: limiter,
		logger:  logger.With("component", "ledger"),
	}
}

func (c *Client) call(ctx context.Context, method string, params map[string]any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	raw, err := c.caller.Call(ctx, method, params)
	metrics.LedgerCallLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	RecordCall(method, err)
	if err != nil {
		c.logger.Debug("ledger call failed", "method", method, "error", err)
		return fmt.Errorf("%s: %w", method, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: unmarshal result: %w", method, err)
	}
	return nil
}

func (c *Client) AccountLines(ctx context.Context, account, peer string) (*AccountLinesResult, error) {
	params := map[string]any{
		"account":      account,
		"ledger_index": "validated",
	}
	if peer != "" {
		params["peer"] = peer
	}

	var all *AccountLinesResult
	for page := 0; page < maxLinePages; page++ {
		var result AccountLinesResult
		if err := c.call(ctx, "account_lines", params, &result); err != nil {
			return nil, err
		}
		if all == nil {
			all = &result
		} else {
			all.Lines = append(all.Lines, result.Lines...)
		}
		if result.Marker == nil {
			all.Marker = nil
			return all, nil
		}
		params["marker"] = result.Marker
	}
	return nil, fmt.Errorf("account_lines: more than %d pages", maxLinePages)
}

func (c *Client) AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error) {
	var result AccountInfoResult
	err := c.call(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": "validated",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) LedgerEntry(ctx context.Context, index string) (*LedgerEntryResult, error) {
	var result LedgerEntryResult
	err := c.call(ctx, "ledger_entry", map[string]any{
		"index":        index,
		"ledger_index": "validated",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) BookOffers(ctx context.Context, req BookOffersRequest) (*BookOffersResult, error) {
	params := map[string]any{
		"taker_gets":   req.TakerGets,
		"taker_pays":   req.TakerPays,
		"ledger_index": "validated",
	}
	if req.Taker != "" {
		params["taker"] = req.Taker
	}
	if req.Limit > 0 {
		params["limit"] = req.Limit
	}

	var result BookOffersResult
	if err := c.call(ctx, "book_offers", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Submit(ctx context.Context, blob string) (*SubmitResult, error) {
	var result SubmitResult
	if err := c.call(ctx, "submit", map[string]any{"tx_blob": blob}, &result); err != nil {
		return nil, err
	}
	c.logger.Info("transaction submitted",
		"hash", result.Hash(),
		"engine_result", result.EngineResult,
	)
	return &result, nil
}

// Validate reports a transaction unknown to the server as not found rather
// than as an error.
func (c *Client) Validate(ctx context.Context, hash string) (*ValidationResult, error) {
	var result struct {
		Hash        string `json:"hash"`
		Validated   bool   `json:"validated"`
		LedgerIndex uint32 `json:"ledger_index"`
		Meta        struct {
			TransactionResult string `json:"TransactionResult"`
		} `json:"meta"`
	}
	err := c.call(ctx, "tx", map[string]any{
		"transaction": hash,
		"binary":      false,
	}, &result)
	if errors.Is(err, ErrNotFound) {
		return &ValidationResult{Hash: hash}, nil
	}
	if err != nil {
		return nil, err
	}
	return &ValidationResult{
		Hash:        hash,
		Found:       true,
		Validated:   result.Validated,
		Result:      result.Meta.TransactionResult,
		LedgerIndex: result.LedgerIndex,
	}, nil
}
