package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/flags"
)

type flagsInfo struct {
	Entity  string   `json:"entity"`
	Mask    uint32   `json:"mask"`
	Hex     string   `json:"hex"`
	Enabled []string `json:"enabled"`
}

// flagsCmd represents the flags command group
var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Convert between flag names and bitmasks",
	Long: `Convert between named flags and the integer bitmasks stored on the ledger.
Entities are transaction types (Payment, TrustSet, AccountSet, OfferCreate,
PaymentChannelClaim, Universal) and ledger objects (AccountRoot, RippleState, Offer).`,
}

var flagsParseCmd = &cobra.Command{
	Use:   "parse <entity> <mask>",
	Short: "List the flags set in a bitmask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntity(args[0])
		if err != nil {
			return err
		}
		mask, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid mask %q: %w", args[1], err)
		}
		return printJSON(cmd, describeFlags(entity, uint32(mask)))
	},
}

var flagsBuildCmd = &cobra.Command{
	Use:   "build <entity> <flag>...",
	Short: "Build a bitmask from flag names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, err := parseEntity(args[0])
		if err != nil {
			return err
		}
		mask, err := flags.Mask(entity, args[1:]...)
		if err != nil {
			return err
		}
		return printJSON(cmd, describeFlags(entity, mask))
	},
}

func init() {
	rootCmd.AddCommand(flagsCmd)
	flagsCmd.AddCommand(flagsParseCmd)
	flagsCmd.AddCommand(flagsBuildCmd)
}

func parseEntity(name string) (flags.Entity, error) {
	entity := flags.Entity(name)
	if !flags.Known(entity) {
		return "", fmt.Errorf("unknown entity: %s", name)
	}
	return entity, nil
}

func describeFlags(entity flags.Entity, mask uint32) flagsInfo {
	return flagsInfo{
		Entity:  string(entity),
		Mask:    mask,
		Hex:     fmt.Sprintf("0x%08X", mask),
		Enabled: flags.Describe(entity, mask),
	}
}
