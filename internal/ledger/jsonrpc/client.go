// Package jsonrpc carries ledger API calls to a rippled server over its
// JSON-RPC HTTP interface.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

// Request is a rippled JSON-RPC request
type Request struct {
	Method string           `json:"method"`
	Params []map[string]any `json:"params"`
}

// Response is a rippled JSON-RPC response
type Response struct {
	Result json.RawMessage `json:"result"`
}

// Client implements ledger.Caller over HTTP POST.
type Client struct {
	httpClient *http.Client
	rpcURL     string
	logger     *slog.Logger
}

var _ ledger.Caller = (*Client)(nil)

func NewClient(rpcURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		rpcURL:     rpcURL,
		logger:     logger,
	}
}

// Call implements ledger.Caller.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(Request{Method: method, Params: []map[string]any{params}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ledger.TransportError(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ledger.TransportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("unexpected http status", "method", method, "status", resp.StatusCode)
		return nil, ledger.TransportError(fmt.Errorf("http status %d: %s", resp.StatusCode, string(respBody)))
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(rpcResp.Result) == 0 {
		return nil, fmt.Errorf("response has no result")
	}
	if err := ledger.CheckResult(rpcResp.Result); err != nil {
		return nil, err
	}
	return rpcResp.Result, nil
}
