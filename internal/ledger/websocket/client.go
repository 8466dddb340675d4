// Package websocket carries ledger API calls to a rippled server over a single
// WebSocket connection, correlating responses to requests by id.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4 << 20
)

// ErrClosed is returned for calls made after the connection is closed.
var ErrClosed = errors.New("websocket connection closed")

// Response is a rippled WebSocket API response
type Response struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	ErrorCode    int             `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Client implements ledger.Caller over one WebSocket connection.
type Client struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	requestID atomic.Uint64

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan Response
	err     error

	done chan struct{}
}

var _ ledger.Caller = (*Client)(nil)

// Dial connects to a rippled WebSocket endpoint and starts the reader.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, ledger.TransportError(fmt.Errorf("dial %s: %w", url, err))
	}
	conn.SetReadLimit(maxMessageSize)

	c := &Client{
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan Response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call implements ledger.Caller.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	id := c.requestID.Add(1)
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer c.forget(id)

	cmd := make(map[string]any, len(params)+2)
	for k, v := range params {
		cmd[k] = v
	}
	cmd["id"] = id
	cmd["command"] = method

	if err := c.write(cmd); err != nil {
		return nil, ledger.TransportError(fmt.Errorf("write %s: %w", method, err))
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, c.closedErr()
		}
		if resp.Status == "error" || resp.Error != "" {
			return nil, &ledger.Error{Name: resp.Error, Code: resp.ErrorCode, Message: resp.ErrorMessage}
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ledger.TransportError(ErrClosed)
}

// readLoop dispatches responses until the connection fails, then fails every
// pending call.
func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read failed", "error", err)
			}
			c.fail(ledger.TransportError(fmt.Errorf("%w: %w", ErrClosed, err)))
			return
		}

		var resp Response
		if err := json.Unmarshal(message, &resp); err != nil {
			c.logger.Warn("dropping malformed websocket message", "error", err)
			continue
		}
		if resp.Type != "" && resp.Type != "response" {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("response for unknown request", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Close closes the connection and waits for the reader to exit.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.done
	return err
}
