package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(handler func(*http.Request) (*http.Response, error)) *Client {
	client := NewClient("http://rippled.local", 5*time.Second, slog.Default())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(handler),
	}
	return client
}

func jsonHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestCall_Success(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, "account_info", req.Method)
		require.Len(t, req.Params, 1)
		assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", req.Params[0]["account"])
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		return jsonHTTPResponse(http.StatusOK, `{"result":{"account_data":{"Account":"rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh","Balance":"1000"},"status":"success"}}`), nil
	})

	result, err := client.Call(context.Background(), "account_info", map[string]any{
		"account": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	})
	require.NoError(t, err)
	assert.Contains(t, string(result), `"Balance":"1000"`)
}

func TestCall_ServerError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK, `{"result":{"error":"actNotFound","error_code":19,"error_message":"Account not found.","status":"error"}}`), nil
	})

	_, err := client.Call(context.Background(), "account_info", nil)
	require.Error(t, err)

	var serverErr *ledger.Error
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "actNotFound", serverErr.Name)
	assert.Equal(t, 19, serverErr.Code)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.False(t, ledger.IsTransport(err))
}

func TestCall_TransportFailures(t *testing.T) {
	tt := []struct {
		description string
		handler     func(*http.Request) (*http.Response, error)
	}{
		{
			description: "network error",
			handler: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			description: "non-200 status",
			handler: func(*http.Request) (*http.Response, error) {
				return jsonHTTPResponse(http.StatusServiceUnavailable, "Server is overloaded"), nil
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			client := newTestClient(tc.handler)
			_, err := client.Call(context.Background(), "submit", map[string]any{"tx_blob": "00"})
			require.Error(t, err)
			assert.True(t, ledger.IsTransport(err))
		})
	}
}

func TestCall_MalformedResponseIsNotTransport(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK, `not json`), nil
	})

	_, err := client.Call(context.Background(), "submit", nil)
	require.Error(t, err)
	assert.False(t, ledger.IsTransport(err))
}

func TestCall_CanceledContext(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Call(ctx, "submit", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ledger.IsTransport(err))
}

func TestClient_AccountLinesPagination(t *testing.T) {
	calls := 0
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))

		if calls == 1 {
			assert.Nil(t, req.Params[0]["marker"])
			return jsonHTTPResponse(http.StatusOK, `{"result":{"account":"rA","lines":[{"account":"rI","currency":"USD","balance":"1","limit":"10","limit_peer":"0"}],"marker":"page2","status":"success"}}`), nil
		}
		assert.Equal(t, "page2", req.Params[0]["marker"])
		return jsonHTTPResponse(http.StatusOK, `{"result":{"account":"rA","lines":[{"account":"rI","currency":"EUR","balance":"2","limit":"10","limit_peer":"0"}],"status":"success"}}`), nil
	})

	svc := ledger.NewClient(client, nil, slog.Default())
	result, err := svc.AccountLines(context.Background(), "rA", "")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "USD", result.Lines[0].Currency)
	assert.Equal(t, "EUR", result.Lines[1].Currency)
	assert.Nil(t, result.Marker)
}
