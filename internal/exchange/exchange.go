// Package exchange estimates, from order book depth, whether and at what rate
// an amount of an issued currency can be bought or sold against the native
// currency.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/metrics"
)

// RateDecimals is the precision rates and prices are reported with.
const RateDecimals = 8

var (
	ErrNotInitialized = errors.New("exchange not initialized")
	ErrInvalidPair    = errors.New("invalid currency pair")
)

var hundred = decimal.NewFromInt(100)

// Direction is the side of the trade from the wallet's point of view.
type Direction int

const (
	// Buy acquires the base currency, paying the counter currency.
	Buy Direction = iota
	// Sell gives up the base currency, receiving the counter currency.
	Sell
)

func (d Direction) String() string {
	if d == Sell {
		return "sell"
	}
	return "buy"
}

// ParseDirection parses "buy" or "sell".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return Buy, fmt.Errorf("unknown direction %q", s)
}

// Pair is an order book pair. Amounts are expressed in Base units and rates in
// Counter units per Base unit.
type Pair struct {
	Base    ledger.Issue
	Counter ledger.Issue
}

// NativePair pairs an issued currency with the native currency.
func NativePair(currency, issuer string) Pair {
	return Pair{
		Base:    ledger.Issue{Currency: currency, Issuer: issuer},
		Counter: ledger.Issue{Currency: amount.NativeCurrency},
	}
}

func (p Pair) String() string {
	return p.Base.String() + ":" + p.Counter.String()
}

// Validate checks that both sides are well formed and distinct.
func (p Pair) Validate() error {
	for _, issue := range []ledger.Issue{p.Base, p.Counter} {
		if issue.IsNative() {
			if issue.Issuer != "" {
				return fmt.Errorf("%w: native currency with issuer", ErrInvalidPair)
			}
			continue
		}
		if err := (amount.CurrencyAmount{Currency: issue.Currency, Issuer: issue.Issuer, Value: "0"}).Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPair, err)
		}
	}
	if amount.SameCurrency(p.Base.Currency, p.Counter.Currency) && p.Base.Issuer == p.Counter.Issuer {
		return fmt.Errorf("%w: both sides are %s", ErrInvalidPair, p.Base)
	}
	return nil
}

// BookSource supplies order book sides.
type BookSource interface {
	BookOffers(ctx context.Context, req ledger.BookOffersRequest) (*ledger.BookOffersResult, error)
}

// Options tunes grading and book synchronization.
type Options struct {
	MaxSpreadPercent   decimal.Decimal
	MaxSlippagePercent decimal.Decimal
	// BookLimit caps the offers fetched per side; zero leaves it to the server.
	BookLimit    uint32
	InitAttempts int
	InitBackoff  time.Duration
}

// DefaultOptions returns the default grading thresholds.
func DefaultOptions() Options {
	return Options{
		MaxSpreadPercent:   decimal.NewFromInt(4),
		MaxSlippagePercent: decimal.NewFromInt(3),
		BookLimit:          50,
		InitAttempts:       3,
		InitBackoff:        500 * time.Millisecond,
	}
}

// level is one offer seen from the taker: Base units available and the
// Counter units they trade for.
type level struct {
	base    decimal.Decimal
	counter decimal.Decimal
	price   decimal.Decimal
}

// snapshot is an immutable view of both sides of a book. asks sell Base for
// Counter, best (lowest price) first; bids buy Base, best (highest) first.
type snapshot struct {
	asks  []level
	bids  []level
	taken time.Time
}

// Exchange evaluates liquidity for one pair against the most recent snapshot.
// It is safe for concurrent use.
type Exchange struct {
	pair   Pair
	source BookSource
	opts   Options
	logger *slog.Logger
	snap   atomic.Pointer[snapshot]
}

// New returns an uninitialized Exchange.
func New(pair Pair, source BookSource, opts Options, logger *slog.Logger) (*Exchange, error) {
	if err := pair.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.InitAttempts < 1 {
		opts.InitAttempts = 1
	}
	return &Exchange{
		pair:   pair,
		source: source,
		opts:   opts,
		logger: logger.With("component", "exchange", "pair", pair.String()),
	}, nil
}

// Initialize fetches both sides of the book and replaces the snapshot.
// Transport failures are retried up to InitAttempts times.
func (e *Exchange) Initialize(ctx context.Context) error {
	var err error
	backoff := e.opts.InitBackoff
	for attempt := 1; attempt <= e.opts.InitAttempts; attempt++ {
		var snap *snapshot
		snap, err = e.fetch(ctx)
		if err == nil {
			e.snap.Store(snap)
			e.logger.Debug("book synchronized", "asks", len(snap.asks), "bids", len(snap.bids))
			return nil
		}
		if !ledger.IsTransport(err) || attempt == e.opts.InitAttempts {
			break
		}
		e.logger.Warn("book fetch failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return fmt.Errorf("initialize %s: %w", e.pair, err)
}

func (e *Exchange) fetch(ctx context.Context) (*snapshot, error) {
	var asks, bids *ledger.BookOffersResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		asks, err = e.source.BookOffers(gctx, ledger.BookOffersRequest{
			TakerGets: e.pair.Base,
			TakerPays: e.pair.Counter,
			Limit:     e.opts.BookLimit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		bids, err = e.source.BookOffers(gctx, ledger.BookOffersRequest{
			TakerGets: e.pair.Counter,
			TakerPays: e.pair.Base,
			Limit:     e.opts.BookLimit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &snapshot{taken: time.Now()}
	var err error
	if snap.asks, err = levels(asks.Offers, false); err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}
	if snap.bids, err = levels(bids.Offers, true); err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}
	sort.SliceStable(snap.asks, func(i, j int) bool { return snap.asks[i].price.LessThan(snap.asks[j].price) })
	sort.SliceStable(snap.bids, func(i, j int) bool { return snap.bids[i].price.GreaterThan(snap.bids[j].price) })
	return snap, nil
}

// levels converts offers to levels. For asks the taker receives Base
// (TakerGets); for bids the taker pays Base (TakerPays). Funded amounts are
// used when the server reports them.
func levels(offers []ledger.BookOffer, bid bool) ([]level, error) {
	out := make([]level, 0, len(offers))
	for _, offer := range offers {
		gets, pays, err := fundedAmounts(offer)
		if err != nil {
			return nil, err
		}
		base, counter := gets, pays
		if bid {
			base, counter = pays, gets
		}
		if !base.IsPositive() || !counter.IsPositive() {
			continue
		}
		out = append(out, level{base: base, counter: counter, price: counter.Div(base)})
	}
	return out, nil
}

func fundedAmounts(offer ledger.BookOffer) (decimal.Decimal, decimal.Decimal, error) {
	gets, err := decodeValue(offer.TakerGets)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	pays, err := decodeValue(offer.TakerPays)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if offer.TakerGetsFunded == nil || !gets.IsPositive() {
		return gets, pays, nil
	}

	fundedGets, err := decodeValue(offer.TakerGetsFunded)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if offer.TakerPaysFunded != nil {
		fundedPays, err := decodeValue(offer.TakerPaysFunded)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return fundedGets, fundedPays, nil
	}
	return fundedGets, pays.Mul(fundedGets).Div(gets), nil
}

func decodeValue(v any) (decimal.Decimal, error) {
	a, err := ledger.DecodeAmount(v)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Decimal()
}

// Liquidity walks the snapshot for size units of Base in direction dir.
func (e *Exchange) Liquidity(ctx context.Context, dir Direction, size decimal.Decimal) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := e.snap.Load()
	if snap == nil {
		return nil, ErrNotInitialized
	}
	if !size.IsPositive() {
		return nil, fmt.Errorf("%w: size must be positive", amount.ErrInvalidAmount)
	}

	report := e.evaluate(snap, dir, size)
	metrics.LiquidityEvaluations.WithLabelValues(dir.String(), strconv.FormatBool(report.Safe)).Inc()
	e.logger.Debug("liquidity evaluated",
		"direction", dir.String(),
		"size", size.String(),
		"rate", report.Rate.String(),
		"safe", report.Safe,
	)
	return report, nil
}

func (e *Exchange) evaluate(snap *snapshot, dir Direction, size decimal.Decimal) *Report {
	side, reverse := snap.asks, snap.bids
	if dir == Sell {
		side, reverse = snap.bids, snap.asks
	}

	report := &Report{}
	if len(side) == 0 {
		report.Errors = append(report.Errors, BookEmpty)
		if len(reverse) == 0 {
			report.Errors = append(report.Errors, ReverseLiquidityMissing)
		}
		return report
	}
	if len(reverse) == 0 {
		report.Errors = append(report.Errors, ReverseLiquidityMissing)
	}

	filled, consumed := walk(side, size)
	report.Filled = filled
	report.Consumed = consumed
	if filled.LessThan(size) {
		report.Errors = append(report.Errors, InsufficientDepth)
	}

	rate := consumed.Div(filled)
	report.Rate = rate.Round(RateDecimals)
	report.Price = decimal.NewFromInt(1).DivRound(rate, RateDecimals)

	if len(reverse) > 0 {
		ask, bid := snap.asks[0].price, snap.bids[0].price
		if ask.Sub(bid).Div(ask).Mul(hundred).GreaterThan(e.opts.MaxSpreadPercent) {
			report.Errors = append(report.Errors, MaxSpreadExceeded)
		}
	}

	best := side[0].price
	slippage := rate.Sub(best)
	if dir == Sell {
		slippage = best.Sub(rate)
	}
	if slippage.Div(best).Mul(hundred).GreaterThan(e.opts.MaxSlippagePercent) {
		report.Errors = append(report.Errors, MaxSlippageExceeded)
	}

	report.Safe = len(report.Errors) == 0
	return report
}

// walk consumes levels best first until size Base units are filled, taking the
// last level proportionally.
func walk(side []level, size decimal.Decimal) (filled, consumed decimal.Decimal) {
	remaining := size
	for _, lvl := range side {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, lvl.base)
		if take.Equal(lvl.base) {
			consumed = consumed.Add(lvl.counter)
		} else {
			consumed = consumed.Add(lvl.counter.Mul(take).Div(lvl.base))
		}
		filled = filled.Add(take)
		remaining = remaining.Sub(take)
	}
	return filled, consumed
}
