package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/journal"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [attempt-id]",
	Short: "List journaled transaction attempts, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Journal.Path == "" {
			return errors.New("journal is disabled: set journal.path")
		}
		j, closeJournal, err := openJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		ctx := cmd.Context()
		if len(args) == 1 {
			entry, err := j.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, entry)
		}
		entries, err := j.List(ctx, historyLimit)
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
		return printJSON(cmd, entries)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of attempts to list, 0 for all")
}
