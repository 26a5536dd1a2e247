package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hiepntnaa/octra-pre-client/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecryptWallet reads and decrypts an .owt file
// password must be []byte for security (caller should zero it after use)
func DecryptWallet(filePath string, password []byte) (*model.EncryptedWalletFile, *model.WalletData, error) {
	fileData, err := readWalletBytes(filePath)
	if err != nil {
		return nil, nil, err
	}

	var file model.EncryptedWalletFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(file.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, nil, err
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, errors.New("invalid password")
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var walletData model.WalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal wallet data: %w", err)
	}

	return &file, &walletData, nil
}

// ReadWalletAddress reads only the address from an .owt file (without decryption)
func ReadWalletAddress(filePath string) (string, error) {
	fileData, err := readWalletBytes(filePath)
	if err != nil {
		return "", err
	}

	var file model.EncryptedWalletFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		return "", fmt.Errorf("failed to unmarshal wallet file: %w", err)
	}

	return file.Address, nil
}

// readWalletBytes loads a wallet file, rejecting missing or empty files and
// skipping a UTF-8 BOM written by Windows editors.
func readWalletBytes(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return bytes.TrimPrefix(fileData, utf8BOM), nil
}
