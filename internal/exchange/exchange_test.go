package exchange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXRPLwallet/internal/ledger"
)

const testIssuer = "rf1BiGeXwwQoi8Z2ueFYTEXSwuJYfV2Jpn"

var usdPair = NativePair("USD", testIssuer)

type fakeBook struct {
	mu       sync.Mutex
	asks     []ledger.BookOffer
	bids     []ledger.BookOffer
	failures int
	err      error
	calls    int
}

func (f *fakeBook) BookOffers(_ context.Context, req ledger.BookOffersRequest) (*ledger.BookOffersResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, f.err
	}
	if req.TakerGets.IsNative() {
		return &ledger.BookOffersResult{Offers: f.bids}, nil
	}
	return &ledger.BookOffersResult{Offers: f.asks}, nil
}

func usd(value string) map[string]any {
	return map[string]any{"currency": "USD", "issuer": testIssuer, "value": value}
}

// ask offers usdValue USD for drops.
func ask(usdValue, drops string) ledger.BookOffer {
	return ledger.BookOffer{TakerGets: usd(usdValue), TakerPays: drops}
}

// bid offers drops for usdValue USD.
func bid(drops, usdValue string) ledger.BookOffer {
	return ledger.BookOffer{TakerGets: drops, TakerPays: usd(usdValue)}
}

func defaultBook() *fakeBook {
	return &fakeBook{
		asks: []ledger.BookOffer{
			ask("10", "20400000"),
			ask("10", "20000000"),
			ask("20", "42000000"),
		},
		bids: []ledger.BookOffer{
			bid("19800000", "10"),
			bid("39000000", "20"),
		},
	}
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.InitBackoff = time.Millisecond
	return opts
}

func initialized(t *testing.T, book *fakeBook, opts Options) *Exchange {
	t.Helper()
	ex, err := New(usdPair, book, opts, nil)
	require.NoError(t, err)
	require.NoError(t, ex.Initialize(context.Background()))
	return ex
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLiquidity_NotInitialized(t *testing.T) {
	ex, err := New(usdPair, defaultBook(), testOptions(), nil)
	require.NoError(t, err)

	_, err = ex.Liquidity(context.Background(), Buy, dec("1"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLiquidity_Walk(t *testing.T) {
	ex := initialized(t, defaultBook(), testOptions())

	tt := []struct {
		description string
		dir         Direction
		size        string
		rate        string
		price       string
		consumed    string
		errors      []ErrorKind
	}{
		{
			description: "buy within best offer",
			dir:         Buy,
			size:        "5",
			rate:        "2",
			price:       "0.5",
			consumed:    "10",
		},
		{
			description: "buy across two offers takes the last one partially",
			dir:         Buy,
			size:        "15",
			rate:        "2.01333333",
			price:       "0.49668874",
			consumed:    "30.2",
		},
		{
			description: "buy more than the book holds",
			dir:         Buy,
			size:        "50",
			rate:        "2.06",
			price:       "0.48543689",
			consumed:    "82.4",
			errors:      []ErrorKind{InsufficientDepth},
		},
		{
			description: "sell within best bid",
			dir:         Sell,
			size:        "10",
			rate:        "1.98",
			price:       "0.50505051",
			consumed:    "19.8",
		},
		{
			description: "sell across bids",
			dir:         Sell,
			size:        "30",
			rate:        "1.96",
			price:       "0.51020408",
			consumed:    "58.8",
		},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			report, err := ex.Liquidity(context.Background(), tc.dir, dec(tc.size))
			require.NoError(t, err)
			assert.Equal(t, tc.errors, report.Errors)
			assert.Equal(t, len(tc.errors) == 0, report.Safe)
			assert.True(t, dec(tc.rate).Equal(report.Rate), "rate %s", report.Rate)
			assert.True(t, dec(tc.price).Equal(report.Price), "price %s", report.Price)
			assert.True(t, dec(tc.consumed).Equal(report.Consumed), "consumed %s", report.Consumed)
		})
	}
}

func TestLiquidity_Grading(t *testing.T) {
	tt := []struct {
		description string
		book        *fakeBook
		opts        func(*Options)
		dir         Direction
		size        string
		expected    []ErrorKind
	}{
		{
			description: "empty book",
			book:        &fakeBook{},
			dir:         Buy,
			size:        "1",
			expected:    []ErrorKind{BookEmpty, ReverseLiquidityMissing},
		},
		{
			description: "no bids for a buy",
			book:        &fakeBook{asks: []ledger.BookOffer{ask("10", "20000000")}},
			dir:         Buy,
			size:        "1",
			expected:    []ErrorKind{ReverseLiquidityMissing},
		},
		{
			description: "no asks for a sell",
			book:        &fakeBook{asks: nil, bids: []ledger.BookOffer{bid("20000000", "10")}},
			dir:         Sell,
			size:        "1",
			expected:    []ErrorKind{ReverseLiquidityMissing},
		},
		{
			description: "wide spread",
			book: &fakeBook{
				asks: []ledger.BookOffer{ask("10", "20000000")},
				bids: []ledger.BookOffer{bid("18000000", "10")},
			},
			dir:      Buy,
			size:     "1",
			expected: []ErrorKind{MaxSpreadExceeded},
		},
		{
			description: "slippage over threshold",
			book:        defaultBook(),
			opts:        func(o *Options) { o.MaxSlippagePercent = dec("0.5") },
			dir:         Buy,
			size:        "15",
			expected:    []ErrorKind{MaxSlippageExceeded},
		},
		{
			description: "slippage at threshold is safe",
			book:        defaultBook(),
			dir:         Buy,
			size:        "40",
		},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			opts := testOptions()
			if tc.opts != nil {
				tc.opts(&opts)
			}
			ex := initialized(t, tc.book, opts)

			report, err := ex.Liquidity(context.Background(), tc.dir, dec(tc.size))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, report.Errors)
			assert.Equal(t, len(tc.expected) == 0, report.Safe)
			for _, kind := range tc.expected {
				assert.True(t, report.Has(kind))
			}
		})
	}
}

func TestLiquidity_PrefersFundedAmounts(t *testing.T) {
	book := defaultBook()
	book.asks = []ledger.BookOffer{
		{
			TakerGets:       usd("10"),
			TakerPays:       "20000000",
			TakerGetsFunded: usd("4"),
			TakerPaysFunded: "8000000",
		},
		ask("10", "20400000"),
	}
	ex := initialized(t, book, testOptions())

	report, err := ex.Liquidity(context.Background(), Buy, dec("5"))
	require.NoError(t, err)
	// 4 USD at 2 then 1 USD at 2.04.
	assert.True(t, dec("10.04").Equal(report.Consumed), "consumed %s", report.Consumed)
	assert.True(t, dec("2.008").Equal(report.Rate), "rate %s", report.Rate)
}

func TestLiquidity_Monotonic(t *testing.T) {
	ex := initialized(t, defaultBook(), testOptions())
	sizes := []string{"0.000001", "1", "5", "9.99", "10", "10.5", "17", "20", "33.3", "40", "45"}

	var lastBuy, lastSell decimal.Decimal
	for i, s := range sizes {
		buy, err := ex.Liquidity(context.Background(), Buy, dec(s))
		require.NoError(t, err)
		sell, err := ex.Liquidity(context.Background(), Sell, dec(s))
		require.NoError(t, err)

		if i > 0 {
			assert.True(t, buy.Rate.GreaterThanOrEqual(lastBuy), "buy rate decreased at %s", s)
			assert.True(t, sell.Rate.LessThanOrEqual(lastSell), "sell rate increased at %s", s)
		}
		lastBuy, lastSell = buy.Rate, sell.Rate
	}
}

func TestInitialize_RetriesTransportFailures(t *testing.T) {
	book := defaultBook()
	book.failures = 1
	book.err = ledger.TransportError(errors.New("connection reset"))

	ex, err := New(usdPair, book, testOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, ex.Initialize(context.Background()))
	assert.Equal(t, 4, book.calls)
}

func TestInitialize_GivesUp(t *testing.T) {
	book := defaultBook()
	book.failures = 100
	book.err = ledger.TransportError(errors.New("connection reset"))

	ex, err := New(usdPair, book, testOptions(), nil)
	require.NoError(t, err)
	err = ex.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, ledger.IsTransport(err))

	_, err = ex.Liquidity(context.Background(), Buy, dec("1"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitialize_DoesNotRetryServerErrors(t *testing.T) {
	book := defaultBook()
	book.failures = 100
	book.err = &ledger.Error{Name: "srcCurMalformed"}

	ex, err := New(usdPair, book, testOptions(), nil)
	require.NoError(t, err)
	require.Error(t, ex.Initialize(context.Background()))
	assert.Equal(t, 2, book.calls)
}

func TestInitialize_CapturesFreshSnapshot(t *testing.T) {
	book := defaultBook()
	ex := initialized(t, book, testOptions())

	before, err := ex.Liquidity(context.Background(), Buy, dec("5"))
	require.NoError(t, err)

	book.mu.Lock()
	book.asks = []ledger.BookOffer{ask("10", "30000000")}
	book.mu.Unlock()

	unchanged, err := ex.Liquidity(context.Background(), Buy, dec("5"))
	require.NoError(t, err)
	assert.True(t, before.Rate.Equal(unchanged.Rate))

	require.NoError(t, ex.Initialize(context.Background()))
	after, err := ex.Liquidity(context.Background(), Buy, dec("5"))
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(after.Rate))
}

func TestNew_RejectsInvalidPair(t *testing.T) {
	_, err := New(NativePair("XRP", ""), defaultBook(), testOptions(), nil)
	assert.ErrorIs(t, err, ErrInvalidPair)

	_, err = New(NativePair("USD", "not-an-address"), defaultBook(), testOptions(), nil)
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestEvaluator_Evaluate(t *testing.T) {
	evaluator := NewEvaluator(defaultBook(), testOptions(), nil)

	report, err := evaluator.Evaluate(context.Background(), usdPair, Buy, dec("5"))
	require.NoError(t, err)
	assert.True(t, report.Safe)
	assert.Equal(t, "safe at 2.00000000", report.String())
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("sell")
	require.NoError(t, err)
	assert.Equal(t, Sell, dir)

	_, err = ParseDirection("hold")
	assert.Error(t, err)
}
