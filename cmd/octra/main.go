package main

import (
	"fmt"
	"os"

	"github.com/hiepntnaa/octra-pre-client/internal/config"
	"github.com/hiepntnaa/octra-pre-client/internal/metrics"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger = logrus.New()

	walletPath string
	rpcURL     string
)

var rootCmd = &cobra.Command{
	Use:           "octra",
	Short:         "Client for a single Octra account",
	Long:          "Query account state, sign and submit transfers, and run the shielding automation cycle against an Octra node.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if walletPath != "" {
			c.WalletPath = walletPath
		}
		if rpcURL != "" {
			c.RPCURL = rpcURL
		}
		cfg = c

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		logger.SetLevel(level)

		metrics.Register(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&walletPath, "wallet", "w", "", "Wallet file (overrides OCTRA_WALLET_PATH)")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "Node URL (overrides OCTRA_RPC_URL and the wallet's rpc)")
}

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
