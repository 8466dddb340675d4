package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/amount"
)

type currencyInfo struct {
	Input     string `json:"input"`
	Display   string `json:"display"`
	Canonical string `json:"canonical,omitempty"`
	Key       string `json:"key,omitempty"`
	Error     string `json:"error,omitempty"`
}

var currencyCmd = &cobra.Command{
	Use:   "currency <code>...",
	Short: "Show the display, canonical and 160-bit forms of currency codes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := make([]currencyInfo, 0, len(args))
		for _, code := range args {
			info := currencyInfo{Input: code, Display: amount.NormalizeCurrencyCode(code)}
			key, err := amount.CurrencyKey(code)
			if err != nil {
				info.Error = err.Error()
			}
			info.Key = key
			if canonical, err := amount.CanonicalCurrency(code); err == nil {
				info.Canonical = canonical
			}
			infos = append(infos, info)
		}
		return printJSON(cmd, infos)
	},
}

func init() {
	rootCmd.AddCommand(currencyCmd)
}
