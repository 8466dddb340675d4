package cli

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/exchange"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
)

type liquidityOutput struct {
	Pair      string               `json:"pair"`
	Direction string               `json:"direction"`
	Size      decimal.Decimal      `json:"size"`
	Safe      bool                 `json:"safe"`
	Rate      decimal.Decimal      `json:"rate"`
	Price     decimal.Decimal      `json:"price"`
	Filled    decimal.Decimal      `json:"filled"`
	Consumed  decimal.Decimal      `json:"consumed"`
	Errors    []exchange.ErrorKind `json:"errors,omitempty"`
	Summary   string               `json:"summary"`
}

var liquidityCmd = &cobra.Command{
	Use:   "liquidity <currency> <issuer> <buy|sell> <size>",
	Short: "Check whether the XRP order book for an issued currency can absorb a trade",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency, err := amount.CanonicalCurrency(args[0])
		if err != nil {
			return err
		}
		issuer, err := fields.Account(args[1])
		if err != nil {
			return err
		}
		dir, err := exchange.ParseDirection(args[2])
		if err != nil {
			return err
		}
		size, err := amount.ParseIssued(args[3])
		if err != nil {
			return err
		}
		opts, err := cfg.ExchangeOptions()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		svc, closeLedger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer closeLedger()

		pair := exchange.NativePair(currency, issuer)
		report, err := exchange.NewEvaluator(svc, opts, logger).Evaluate(ctx, pair, dir, size)
		if err != nil {
			return err
		}
		return printJSON(cmd, liquidityOutput{
			Pair:      pair.String(),
			Direction: dir.String(),
			Size:      size,
			Safe:      report.Safe,
			Rate:      report.Rate,
			Price:     report.Price,
			Filled:    report.Filled,
			Consumed:  report.Consumed,
			Errors:    report.Errors,
			Summary:   report.String(),
		})
	},
}

func init() {
	rootCmd.AddCommand(liquidityCmd)
}
