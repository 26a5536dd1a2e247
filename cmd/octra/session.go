package main

import (
	"github.com/hiepntnaa/octra-pre-client/internal/config"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/octra"
)

func promptPassword() ([]byte, error) {
	return config.PromptForPassword("Enter wallet password: ")
}

// openSession loads the configured wallet. The caller must Close the session.
func openSession() (*octra.Session, error) {
	wallet, err := crypto.LoadWallet(cfg.WalletPath, promptPassword)
	if err != nil {
		return nil, err
	}

	url := wallet.RPCURL
	if cfg.RPCURL != "" {
		url = cfg.RPCURL
	}

	session := octra.NewSession(wallet.Keys, url, logger)
	logger.WithField("rpc", session.RPC.BaseURL()).Debug("using node")
	return session, nil
}
