package crypto

import (
	"crypto/sha256"
	"errors"
	"regexp"

	"github.com/mr-tron/base58"
)

const addressPrefix = "oct"

var (
	// ErrInvalidAddress is returned for anything outside "oct" + 44 Base58 characters.
	ErrInvalidAddress = errors.New("invalid address format")

	addressPattern = regexp.MustCompile(`^oct[1-9A-HJ-NP-Za-km-z]{44}$`)
)

// ValidateAddress checks the network address grammar. No I/O.
func ValidateAddress(address string) error {
	if !addressPattern.MatchString(address) {
		return ErrInvalidAddress
	}
	return nil
}

// IsValidAddress reports whether address matches the network grammar.
func IsValidAddress(address string) bool {
	return ValidateAddress(address) == nil
}

// DeriveAddress builds "oct" + Base58(SHA256(publicKey)).
// The result can be 43 Base58 characters long when the digest is small;
// such addresses do not pass ValidateAddress.
func DeriveAddress(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return addressPrefix + base58.Encode(sum[:])
}
