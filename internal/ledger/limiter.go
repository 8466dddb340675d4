package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/LeJamon/goXRPLwallet/internal/metrics"
)

// Limiter wraps a token-bucket rate limiter for ledger calls.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a rate limiter that allows rps requests per second
// with a burst capacity of burst tokens.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until the limiter allows one event, or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	r := l.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("rate: cannot reserve token")
	}
	delay := r.Delay()
	if delay > 0 {
		metrics.LedgerRateLimitWaits.Inc()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			r.Cancel()
			return ctx.Err()
		}
	}
	return nil
}

// RecordCall records a ledger call metric with status classification.
func RecordCall(method string, err error) {
	metrics.LedgerCallsTotal.WithLabelValues(method, ClassifyError(err)).Inc()
}

// ClassifyError classifies a ledger call error into a category.
func ClassifyError(err error) string {
	var serverErr *Error
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &serverErr):
		return "server_error"
	case IsTransport(err):
		return "network_error"
	default:
		return "client_error"
	}
}
