package cli

import (
	"github.com/spf13/cobra"

	"github.com/LeJamon/goXRPLwallet/internal/tx"
)

var signInSeed string

type signInOutput struct {
	Account   string `json:"account"`
	PublicKey string `json:"public_key"`
	Hash      string `json:"hash"`
	Blob      string `json:"blob"`
}

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign a SignIn proof of account ownership",
	Long: `Sign a SignIn pseudo-transaction. It is serialized like an AccountSet but is
never submitted; the blob proves control of the account to a third party.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := loadKeys(signInSeed)
		if err != nil {
			return err
		}
		s, err := tx.New(tx.TypeSignIn)
		if err != nil {
			return err
		}

		j, closeJournal, err := openJournal()
		if err != nil {
			return err
		}
		defer closeJournal()
		ctl, err := newController(nil, j)
		if err != nil {
			return err
		}

		signed, _, err := ctl.Run(cmd.Context(), s, keys)
		if err != nil {
			return err
		}
		return printJSON(cmd, signInOutput{
			Account:   keys.Address,
			PublicKey: keys.PublicKey,
			Hash:      signed.Hash,
			Blob:      signed.Blob,
		})
	},
}

func init() {
	rootCmd.AddCommand(signInCmd)
	signInCmd.Flags().StringVar(&signInSeed, "seed", "", "family seed of the account (default $"+seedEnv+")")
}
