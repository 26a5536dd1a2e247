package main

import (
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/crypto"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <address>",
	Short: "Check an address against the address grammar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := crypto.ValidateAddress(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
