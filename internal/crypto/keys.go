package crypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// KeyMaterial holds the signing key of the single account this agent drives.
// It is built once per run and never mutated.
type KeyMaterial struct {
	private solana.PrivateKey
	public  solana.PublicKey
	address string
}

// NewKeyMaterial derives the public key and address from an ed25519 seed.
// A 64-byte expanded key is accepted too; only its seed half is used.
func NewKeyMaterial(seed []byte) (*KeyMaterial, error) {
	switch len(seed) {
	case ed25519.SeedSize:
	case ed25519.PrivateKeySize:
		seed = seed[:ed25519.SeedSize]
	default:
		return nil, fmt.Errorf("invalid private key length: expected %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(seed))
	}

	private := solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
	public := private.PublicKey()

	return &KeyMaterial{
		private: private,
		public:  public,
		address: DeriveAddress(public[:]),
	}, nil
}

// KeyMaterialFromBase64 decodes a standard base64 seed and derives the keys.
func KeyMaterialFromBase64(priv string) (*KeyMaterial, error) {
	if priv == "" {
		return nil, errors.New("private key is empty")
	}
	seed, err := base64.StdEncoding.DecodeString(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	defer clear(seed)

	return NewKeyMaterial(seed)
}

// Address returns the account address.
func (k *KeyMaterial) Address() string {
	return k.address
}

// PublicKey returns a copy of the raw 32-byte public key.
func (k *KeyMaterial) PublicKey() []byte {
	out := make([]byte, len(k.public))
	copy(out, k.public[:])
	return out
}

// PublicKeyBase64 is the public key as sent in transaction envelopes.
func (k *KeyMaterial) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(k.public[:])
}

// SeedBase64 is the seed in the wallet-file encoding. The shielding endpoints
// take it as a credential.
func (k *KeyMaterial) SeedBase64() string {
	return base64.StdEncoding.EncodeToString(k.private[:ed25519.SeedSize])
}

// Sign returns the raw ed25519 signature of payload.
func (k *KeyMaterial) Sign(payload []byte) ([]byte, error) {
	sig, err := k.private.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}
	return sig[:], nil
}

// Verify checks sig against this key's public key.
func (k *KeyMaterial) Verify(payload, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(k.public[:]), payload, sig)
}

// MatchesAddress reports whether address is the one derived from this key.
func (k *KeyMaterial) MatchesAddress(address string) bool {
	return k.address == address
}
