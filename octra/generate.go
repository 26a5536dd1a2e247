package octra

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
)

// Some digests encode to 43 Base58 characters, which the address grammar
// rejects; those keys are discarded.
const maxKeygenAttempts = 64

// IsFileExistsError checks if error means the target wallet file already has content
func IsFileExistsError(err error) bool {
	return errors.Is(err, os.ErrExist)
}

// GenerateWallet generates a new keypair and writes it to filePath. Paths
// ending in .owt are encrypted with password; anything else is written as a
// plain JSON wallet with a QR PNG of the address next to it.
// password must be []byte for security (caller should zero it after use)
func GenerateWallet(filePath, rpcURL string, password []byte) (*model.GenerateResponse, error) {
	keys, err := newValidKey()
	if err != nil {
		return nil, err
	}

	address := keys.Address()
	png, err := generateQRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	if crypto.IsEncryptedWalletPath(filePath) {
		if len(password) == 0 {
			return nil, errors.New("password cannot be empty")
		}
		seed, err := base64.StdEncoding.DecodeString(keys.SeedBase64())
		if err != nil {
			return nil, err
		}
		defer clear(seed)

		walletData := &model.WalletData{
			PrivateKey: seed,
			CreatedAt:  time.Now().Format(time.RFC3339),
		}
		qr := base64.StdEncoding.EncodeToString(png)
		if err := crypto.EncryptWallet(filePath, address, rpcURL, qr, walletData, password); err != nil {
			return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
		}
		return &model.GenerateResponse{
			Success: true,
			Message: "Wallet generated successfully",
			Address: address,
		}, nil
	}

	if err := crypto.WriteWallet(filePath, keys, rpcURL); err != nil {
		return nil, fmt.Errorf("failed to write wallet: %w", err)
	}

	qrPath := strings.TrimSuffix(filePath, ".json") + "_qr.png"
	if err := os.WriteFile(qrPath, png, 0644); err != nil {
		return nil, fmt.Errorf("failed to write QR code: %w", err)
	}

	return &model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
		QRPath:  qrPath,
	}, nil
}

// ExportWallet loads the wallet at src (plain or encrypted) and writes it to
// dst. A .owt dst is encrypted with newPassword, which lets an encrypted
// wallet be re-keyed or a plain one be locked.
func ExportWallet(src, dst string, password crypto.PasswordFunc, newPassword []byte) (*model.GenerateResponse, error) {
	wallet, err := crypto.LoadWallet(src, password)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	address := wallet.Keys.Address()

	if !crypto.IsEncryptedWalletPath(dst) {
		if err := crypto.WriteWallet(dst, wallet.Keys, wallet.RPCURL); err != nil {
			return nil, fmt.Errorf("failed to write wallet: %w", err)
		}
		return &model.GenerateResponse{Success: true, Message: "Wallet exported", Address: address}, nil
	}

	if len(newPassword) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	png, err := generateQRCode(address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	seed, err := base64.StdEncoding.DecodeString(wallet.Keys.SeedBase64())
	if err != nil {
		return nil, err
	}
	defer clear(seed)

	walletData := &model.WalletData{PrivateKey: seed, CreatedAt: time.Now().Format(time.RFC3339)}
	qr := base64.StdEncoding.EncodeToString(png)
	if err := crypto.EncryptWallet(dst, address, wallet.RPCURL, qr, walletData, newPassword); err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	return &model.GenerateResponse{Success: true, Message: "Wallet exported", Address: address}, nil
}

func newValidKey() (*crypto.KeyMaterial, error) {
	for i := 0; i < maxKeygenAttempts; i++ {
		private, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		keys, err := crypto.NewKeyMaterial(private)
		clear(private)
		if err != nil {
			return nil, err
		}
		if crypto.IsValidAddress(keys.Address()) {
			return keys, nil
		}
	}
	return nil, errors.New("failed to generate a key with a valid address")
}

// generateQRCode renders the address as a 256px PNG
func generateQRCode(address string) ([]byte, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	return qr.PNG(256)
}
