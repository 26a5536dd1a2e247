package octra

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	MaxMessageLength = 1024 // characters

	// Amounts at or above this pay the large fee.
	largeTierThreshold = 1000 * common.MicroPerOCT

	timestampJitter = 0.01 // seconds
)

// FeeTier is the fee category of a transfer. It is part of the signed payload.
type FeeTier string

const (
	FeeTierStandard FeeTier = "standard"
	FeeTierLarge    FeeTier = "large"
)

// OU returns the numeric category embedded in the signed payload.
func (t FeeTier) OU() string {
	if t == FeeTierLarge {
		return "3"
	}
	return "1"
}

// Fee returns the fee in micro units.
func (t FeeTier) Fee() uint64 {
	if t == FeeTierLarge {
		return 3000
	}
	return 1000
}

// FeeTierFor selects the tier for an amount in micro units.
func FeeTierFor(micro uint64) FeeTier {
	if micro < largeTierThreshold {
		return FeeTierStandard
	}
	return FeeTierLarge
}

// Built is a fully signed transaction plus the bytes it was signed over.
type Built struct {
	Tx          *model.Transaction
	Canonical   []byte
	ContentHash string // local reference only; the node's hash is authoritative
	FeeTier     FeeTier
	Truncated   bool
}

// Builder produces signed transfer envelopes for one key.
type Builder struct {
	keys   *crypto.KeyMaterial
	clock  common.Clock
	rand   common.Random
	logger logrus.FieldLogger
}

func NewBuilder(keys *crypto.KeyMaterial, clock common.Clock, rand common.Random, logger logrus.FieldLogger) *Builder {
	return &Builder{keys: keys, clock: clock, rand: rand, logger: logger}
}

// Build creates and signs a transfer of micro units from the builder's account
// to to. Either a complete signed envelope is returned or an error.
func (b *Builder) Build(to string, micro uint64, nonce uint64, message string) (*Built, error) {
	if err := crypto.ValidateAddress(to); err != nil {
		return nil, err
	}
	if micro == 0 {
		return nil, ErrNonPositiveAmount
	}

	message, truncated := truncateMessage(message)
	if truncated {
		b.logger.Warnf("message truncated to %d characters", MaxMessageLength)
	}

	tier := FeeTierFor(micro)
	tx := &model.Transaction{
		From:      b.keys.Address(),
		To:        to,
		Amount:    strconv.FormatUint(micro, 10),
		Nonce:     nonce,
		OU:        tier.OU(),
		Timestamp: b.timestamp(),
		Message:   message,
	}

	canonical, err := CanonicalBytes(tx)
	if err != nil {
		return nil, err
	}

	sig, err := b.keys.Sign(canonical)
	if err != nil {
		return nil, err
	}
	tx.Signature = base64.StdEncoding.EncodeToString(sig)
	tx.PublicKey = b.keys.PublicKeyBase64()

	sum := sha256.Sum256(canonical)

	return &Built{
		Tx:          tx,
		Canonical:   canonical,
		ContentHash: hex.EncodeToString(sum[:]),
		FeeTier:     tier,
		Truncated:   truncated,
	}, nil
}

// timestamp is wall time in seconds plus up to 10ms of jitter. It is computed
// once per build because it is signed.
func (b *Builder) timestamp() float64 {
	now := b.clock.Now()
	return float64(now.UnixNano())/1e9 + b.rand.Float64()*timestampJitter
}

// signable is the signed subset of a transaction, in signing order.
type signable struct {
	From      string        `json:"from"`
	To        string        `json:"to_"`
	Amount    string        `json:"amount"`
	Nonce     uint64        `json:"nonce"`
	OU        string        `json:"ou"`
	Timestamp decimalSecond `json:"timestamp"`
}

// decimalSecond renders a float the way the node's verifier does: shortest
// round-trip digits, never an exponent, and a ".0" suffix on integral values.
type decimalSecond float64

func (d decimalSecond) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(d), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

// CanonicalBytes is the exact byte string that is signed: compact JSON of the
// signable fields, excluding message, signature and public key.
func CanonicalBytes(tx *model.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(signable{
		From:      tx.From,
		To:        tx.To,
		Amount:    tx.Amount,
		Nonce:     tx.Nonce,
		OU:        tx.OU,
		Timestamp: decimalSecond(tx.Timestamp),
	}); err != nil {
		return nil, fmt.Errorf("failed to encode signable payload: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func truncateMessage(message string) (string, bool) {
	runes := []rune(message)
	if len(runes) <= MaxMessageLength {
		return message, false
	}
	return string(runes[:MaxMessageLength]), true
}
