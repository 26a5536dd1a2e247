package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/config"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/spf13/cobra"
)

var keygenRPC string

var keygenCmd = &cobra.Command{
	Use:   "keygen <path>",
	Short: "Generate a new wallet",
	Long: `Generates a new keypair. A path ending in .owt is encrypted with a password
(prompted twice); any other path gets a plain JSON wallet and a QR PNG of the address.
Existing non-empty files are never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var password []byte
		if crypto.IsEncryptedWalletPath(path) {
			pw, err := promptNewPassword()
			if err != nil {
				return err
			}
			password = pw
			defer clear(password)
		}

		resp, err := octra.GenerateWallet(path, keygenRPC, password)
		if err != nil {
			if octra.IsFileExistsError(err) {
				return fmt.Errorf("%s already exists and is not empty", path)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "address: %s\n", resp.Address)
		fmt.Fprintf(out, "wallet:  %s\n", path)
		if resp.QRPath != "" {
			fmt.Fprintf(out, "qr:      %s\n", resp.QRPath)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <src> <dst>",
	Short: "Copy a wallet to a new file, re-encrypting when dst ends in .owt",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password []byte
		if crypto.IsEncryptedWalletPath(args[1]) {
			pw, err := promptNewPassword()
			if err != nil {
				return err
			}
			password = pw
			defer clear(password)
		}

		resp, err := octra.ExportWallet(args[0], args[1], promptPassword, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", resp.Address, args[1])
		return nil
	},
}

func promptNewPassword() ([]byte, error) {
	pw, err := config.PromptForPassword("New wallet password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := config.PromptForPassword("Repeat password: ")
	if err != nil {
		clear(pw)
		return nil, err
	}
	defer clear(confirm)

	if !bytes.Equal(pw, confirm) {
		clear(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func init() {
	keygenCmd.Flags().StringVar(&keygenRPC, "node", crypto.DefaultRPCURL, "Node URL stored in the wallet")
	rootCmd.AddCommand(keygenCmd, exportCmd)
}
