package main

import (
	"context"
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/graceful"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show balance and nonces of the wallet account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := graceful.WithCancelOnSignal(context.Background(), logger)
		defer cancel()

		balance, err := octra.GetBalance(ctx, session)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "address:         %s\n", balance.Address)
		fmt.Fprintf(out, "balance:         %s OCT\n", balance.Balance)
		fmt.Fprintf(out, "nonce:           %d\n", balance.Nonce)
		fmt.Fprintf(out, "effective nonce: %d\n", balance.EffectiveNonce)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
