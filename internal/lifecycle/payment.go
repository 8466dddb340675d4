package lifecycle

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/ledger"
	"github.com/LeJamon/goXRPLwallet/internal/tx"
)

// transferRateParity is the TransferRate of an issuer that charges no fee.
const transferRateParity = 1_000_000_000

const partialPaymentFlag = "tfPartialPayment"

// Conversion describes what PreparePayment changed on a payment.
type Conversion struct {
	// SendMax is the native amount written to the transaction, rounded up to
	// whole drops. Zero when only the partial-payment flag was set.
	SendMax amount.CurrencyAmount
	// Quoted is value × rate at RateDecimals, as shown to the user.
	Quoted decimal.Decimal
	Rate   decimal.Decimal
	// Price is the quoted exchange rate in issued units per native unit.
	Price          decimal.Decimal
	PartialPayment bool
	TransferRate   uint32
	Report         *exchange.Report
}

// PreparePayment decides whether an issued-currency payment must be funded
// from the native balance and, if so, writes SendMax and the partial-payment
// flag. An issuer paying out its own currency only gets the partial-payment
// flag. It returns nil when the transaction was left as is. On error the
// transaction is untouched.
func (c *Controller) PreparePayment(ctx context.Context, t *tx.Transaction) (*Conversion, error) {
	if t.Type() != tx.TypePayment {
		return nil, nil
	}
	amt, ok := t.Amount()
	if !ok || amt.IsNative() {
		return nil, nil
	}
	account := t.Account()
	if account == amt.Issuer {
		if err := t.AddFlags(partialPaymentFlag); err != nil {
			return nil, &Error{Kind: SigningError, Reason: "set partial payment", Err: err}
		}
		return &Conversion{PartialPayment: true}, nil
	}
	// A SendMax here was chosen by the caller; Sign never leaves its own behind.
	if _, ok := t.SendMax(); ok {
		return nil, nil
	}
	value, err := amt.Decimal()
	if err != nil {
		return nil, &Error{Kind: SigningError, Reason: "payment amount", Err: err}
	}

	var (
		lines  *ledger.AccountLinesResult
		issuer *ledger.AccountInfoResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = c.ledger.AccountLines(gctx, account, amt.Issuer)
		return err
	})
	g.Go(func() error {
		var err error
		issuer, err = c.ledger.AccountInfo(gctx, amt.Issuer)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: SigningError, Reason: "trust line lookup", Err: err}
	}

	if line, found := lines.Line(amt.Issuer, amt.Currency); found {
		balance, err := decimal.NewFromString(line.Balance)
		if err == nil && balance.GreaterThanOrEqual(value) {
			rate := issuer.AccountData.TransferRate
			if rate == 0 || rate == transferRateParity {
				return nil, nil
			}
			if err := t.AddFlags(partialPaymentFlag); err != nil {
				return nil, &Error{Kind: SigningError, Reason: "set partial payment", Err: err}
			}
			return &Conversion{PartialPayment: true, TransferRate: rate}, nil
		}
	}

	if c.liquidity == nil {
		return nil, &Error{Kind: NotInitialized, Reason: "no liquidity evaluator"}
	}
	pair := exchange.NativePair(amt.Currency, amt.Issuer)
	report, err := c.liquidity.Evaluate(ctx, pair, exchange.Buy, value)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: NotInitialized, Reason: "order book unavailable", Err: err}
	}
	if !report.Safe {
		return nil, &Error{Kind: InsufficientLiquidity, Reason: report.String()}
	}

	quoted := value.Mul(report.Rate).Round(exchange.RateDecimals)
	sendMax := amount.Native(amount.RoundUpToDrops(quoted).String())
	if err := t.SetSendMax(sendMax); err != nil {
		return nil, &Error{Kind: SigningError, Reason: "set SendMax", Err: err}
	}
	if err := t.AddFlags(partialPaymentFlag); err != nil {
		_ = t.Unset("SendMax")
		return nil, &Error{Kind: SigningError, Reason: "set partial payment", Err: err}
	}

	c.logger.Info("payment converted",
		"currency", amt.Currency,
		"value", amt.Value,
		"send_max", sendMax.Value,
		"rate", report.Rate.String(),
	)
	return &Conversion{
		SendMax:        sendMax,
		Quoted:         quoted,
		Rate:           report.Rate,
		Price:          report.Price,
		PartialPayment: true,
		Report:         report,
	}, nil
}
