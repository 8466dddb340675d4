package exchange

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Evaluator evaluates liquidity against a fresh snapshot on every call.
type Evaluator struct {
	source BookSource
	opts   Options
	logger *slog.Logger
}

func NewEvaluator(source BookSource, opts Options, logger *slog.Logger) *Evaluator {
	return &Evaluator{source: source, opts: opts, logger: logger}
}

// Evaluate synchronizes the book for pair and walks it for size Base units.
func (e *Evaluator) Evaluate(ctx context.Context, pair Pair, dir Direction, size decimal.Decimal) (*Report, error) {
	ex, err := New(pair, e.source, e.opts, e.logger)
	if err != nil {
		return nil, err
	}
	if err := ex.Initialize(ctx); err != nil {
		return nil, err
	}
	return ex.Liquidity(ctx, dir, size)
}
