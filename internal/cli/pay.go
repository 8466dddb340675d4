package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/lifecycle"
	"github.com/LeJamon/goXRPLwallet/internal/tx"
)

var (
	// Pay flags
	paySeed      string
	payTo        string
	payAmount    string
	payCurrency  string
	payIssuer    string
	payInvoiceID string
	paySignOnly  bool
)

type payOutput struct {
	ID          string `json:"id"`
	Hash        string `json:"hash"`
	Blob        string `json:"blob,omitempty"`
	SendMax     string `json:"send_max,omitempty"`
	Quoted      string `json:"quoted,omitempty"`
	Price       string `json:"price,omitempty"`
	Partial     bool   `json:"partial_payment,omitempty"`
	Result      string `json:"result,omitempty"`
	LedgerIndex uint32 `json:"ledger_index,omitempty"`
}

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Send a payment and wait for it to be validated",
	Long: `Build, sign, submit and verify a Payment. When the account cannot cover an
issued-currency amount from its trust line, SendMax is set in XRP at the order
book rate and the payment becomes a partial payment.

The destination may carry a tag as "address:tag".`,
	RunE: runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)

	payCmd.Flags().StringVar(&paySeed, "seed", "", "family seed of the sending account (default $"+seedEnv+")")
	payCmd.Flags().StringVar(&payTo, "to", "", "destination address, optionally address:tag")
	payCmd.Flags().StringVar(&payAmount, "amount", "", "amount to deliver")
	payCmd.Flags().StringVar(&payCurrency, "currency", amount.NativeCurrency, "currency to deliver")
	payCmd.Flags().StringVar(&payIssuer, "issuer", "", "issuer of an issued currency")
	payCmd.Flags().StringVar(&payInvoiceID, "invoice-id", "", "256-bit invoice identifier")
	payCmd.Flags().BoolVar(&paySignOnly, "sign-only", false, "sign without submitting")
	_ = payCmd.MarkFlagRequired("to")
	_ = payCmd.MarkFlagRequired("amount")
}

func buildPayment(account string) (*tx.Transaction, error) {
	p, err := tx.New(tx.TypePayment)
	if err != nil {
		return nil, err
	}
	if err := p.SetAccount(account); err != nil {
		return nil, err
	}
	if err := p.SetDestination(fields.Address(payTo)); err != nil {
		return nil, err
	}

	var amt amount.Loose = amount.Raw(payAmount)
	if !strings.EqualFold(payCurrency, amount.NativeCurrency) {
		if payIssuer == "" {
			return nil, fmt.Errorf("--issuer is required for %s", payCurrency)
		}
		amt = amount.CurrencyAmount{Currency: payCurrency, Issuer: payIssuer, Value: payAmount}
	}
	if err := p.SetAmount(amt); err != nil {
		return nil, err
	}
	if payInvoiceID != "" {
		if err := p.SetInvoiceID(payInvoiceID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func runPay(cmd *cobra.Command, args []string) error {
	keys, err := loadKeys(paySeed)
	if err != nil {
		return err
	}
	p, err := buildPayment(keys.Address)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeLedger, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()
	j, closeJournal, err := openJournal()
	if err != nil {
		return err
	}
	defer closeJournal()

	ctl, err := newController(svc, j)
	if err != nil {
		return err
	}

	var (
		signed  *lifecycle.SignedTx
		outcome *lifecycle.Outcome
	)
	if paySignOnly {
		signed, err = ctl.Sign(ctx, p, keys)
	} else {
		signed, outcome, err = ctl.Run(ctx, p, keys)
	}
	if err != nil {
		return err
	}

	out := payOutput{ID: signed.ID, Hash: signed.Hash}
	if paySignOnly {
		out.Blob = signed.Blob
	}
	if c := signed.Conversion; c != nil {
		out.Partial = c.PartialPayment
		if c.Report != nil {
			out.SendMax = c.SendMax.Value
			out.Quoted = c.Quoted.StringFixed(exchange.RateDecimals)
			out.Price = c.Price.StringFixed(exchange.RateDecimals)
		}
	}
	if outcome != nil {
		out.Result = outcome.Result
		out.LedgerIndex = outcome.LedgerIndex
	}
	return printJSON(cmd, out)
}
