package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hiepntnaa/octra-pre-client/internal/model"
)

const (
	EncryptedWalletExt = ".owt"
	DefaultRPCURL      = "https://octra.network"
)

// PasswordFunc supplies the password of an encrypted wallet on demand.
type PasswordFunc func() ([]byte, error)

// Wallet is a loaded credential: the keys plus the node URL stored with them.
type Wallet struct {
	Keys   *KeyMaterial
	RPCURL string
}

// IsEncryptedWalletPath reports whether path names an encrypted wallet file.
func IsEncryptedWalletPath(path string) bool {
	return filepath.Ext(path) == EncryptedWalletExt
}

// LoadWallet reads a plain JSON wallet or, for .owt files, decrypts it with the
// password returned by password. The stored address, when present, must match
// the key.
func LoadWallet(path string, password PasswordFunc) (*Wallet, error) {
	if IsEncryptedWalletPath(path) {
		return loadEncryptedWallet(path, password)
	}

	data, err := readWalletBytes(path)
	if err != nil {
		return nil, err
	}

	var file model.WalletFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}

	keys, err := KeyMaterialFromBase64(file.Priv)
	if err != nil {
		return nil, err
	}

	return newWallet(keys, file.Addr, file.RPC)
}

func loadEncryptedWallet(path string, password PasswordFunc) (*Wallet, error) {
	if password == nil {
		return nil, errors.New("encrypted wallet requires a password")
	}
	pass, err := password()
	if err != nil {
		return nil, err
	}
	defer clear(pass)

	file, data, err := DecryptWallet(path, pass)
	if err != nil {
		return nil, err
	}
	defer clear(data.PrivateKey)

	keys, err := NewKeyMaterial(data.PrivateKey)
	if err != nil {
		return nil, err
	}

	return newWallet(keys, file.Address, file.RPC)
}

func newWallet(keys *KeyMaterial, address, rpcURL string) (*Wallet, error) {
	if address != "" && !keys.MatchesAddress(address) {
		return nil, fmt.Errorf("private key does not match address %s", address)
	}
	if rpcURL == "" {
		rpcURL = DefaultRPCURL
	}
	return &Wallet{Keys: keys, RPCURL: rpcURL}, nil
}

// WriteWallet writes a plain JSON wallet file. Existing non-empty files are
// never overwritten.
func WriteWallet(filePath string, keys *KeyMaterial, rpcURL string) error {
	if err := ensureEmptyTarget(filePath); err != nil {
		return err
	}

	data, err := json.MarshalIndent(model.WalletFile{
		Priv: keys.SeedBase64(),
		Addr: keys.Address(),
		RPC:  rpcURL,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet file: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
