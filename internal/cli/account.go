package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
	"github.com/LeJamon/goXRPLwallet/internal/fields"
	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

type accountOutput struct {
	Account      string       `json:"account"`
	Balance      string       `json:"balance"`
	Sequence     uint32       `json:"sequence"`
	OwnerCount   uint32       `json:"owner_count"`
	Flags        []string     `json:"flags"`
	TransferRate uint32       `json:"transfer_rate,omitempty"`
	LedgerIndex  uint32       `json:"ledger_index"`
	Lines        []lineOutput `json:"lines"`
}

type lineOutput struct {
	Peer     string `json:"peer"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	Limit    string `json:"limit"`
}

var accountCmd = &cobra.Command{
	Use:   "account <address>",
	Short: "Show an account's XRP balance, flags and trust lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := fields.Account(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		svc, closeLedger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer closeLedger()

		info, err := svc.AccountInfo(ctx, address)
		if err != nil {
			return fmt.Errorf("account_info: %w", err)
		}
		lines, err := svc.AccountLines(ctx, address, "")
		if err != nil {
			return fmt.Errorf("account_lines: %w", err)
		}

		balance, err := amount.FromDrops(info.AccountData.Balance)
		if err != nil {
			return err
		}
		out := accountOutput{
			Account:      address,
			Balance:      balance,
			Sequence:     info.AccountData.Sequence,
			OwnerCount:   info.AccountData.OwnerCount,
			Flags:        flags.Describe(flags.AccountRoot, info.AccountData.Flags),
			TransferRate: info.AccountData.TransferRate,
			LedgerIndex:  info.LedgerIndex,
			Lines:        make([]lineOutput, 0, len(lines.Lines)),
		}
		for _, line := range lines.Lines {
			out.Lines = append(out.Lines, lineOutput{
				Peer:     line.Account,
				Currency: amount.NormalizeCurrencyCode(line.Currency),
				Balance:  line.Balance,
				Limit:    line.Limit,
			})
		}
		return printJSON(cmd, out)
	},
}

var entryCmd = &cobra.Command{
	Use:   "entry <index>",
	Short: "Show a validated ledger object by its index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := fields.Hash256(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		svc, closeLedger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer closeLedger()

		entry, err := svc.LedgerEntry(ctx, index)
		if err != nil {
			return fmt.Errorf("ledger_entry: %w", err)
		}
		out := map[string]any{
			"index":        entry.Index,
			"ledger_index": entry.LedgerIndex,
			"validated":    entry.Validated,
			"node":         entry.Node,
		}
		// Ledger objects carry Flags as a JSON number.
		entryType, _ := entry.Node["LedgerEntryType"].(string)
		if mask, ok := entry.Node["Flags"].(float64); ok && flags.Known(flags.Entity(entryType)) {
			out["flags"] = flags.Describe(flags.Entity(entryType), uint32(mask))
		}
		return printJSON(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(entryCmd)
}
