package main

import (
	"context"
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/graceful"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <to> <amount> [message]",
	Short: "Sign and submit a transfer",
	Long:  "Sends amount OCT (decimal, up to 6 places) to the given address. Exits non-zero unless the node accepts the transaction.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var message string
		if len(args) == 3 {
			message = args[2]
		}

		// Reject bad input before the wallet password prompt.
		if err := crypto.ValidateAddress(args[0]); err != nil {
			return err
		}
		if _, err := common.OCTToMicro(args[1]); err != nil {
			return fmt.Errorf("%w: %v", octra.ErrInvalidAmount, err)
		}

		session, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ctx, cancel := graceful.WithCancelOnSignal(context.Background(), logger)
		defer cancel()

		resp, err := octra.NewPayer(session, 0).Send(ctx, args[0], args[1], message)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "accepted: %s\n", resp.TxHash)
		fmt.Fprintf(out, "nonce:    %d\n", resp.Nonce)
		fmt.Fprintf(out, "fee:      %s OCT\n", resp.Fee)
		fmt.Fprintf(out, "time:     %.2fs\n", resp.ElapsedSec)
		if resp.PoolSize != nil {
			fmt.Fprintf(out, "pool:     %d\n", *resp.PoolSize)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
