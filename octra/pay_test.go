package octra

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payNode is a mock node with a fixed balance and nonce that records every
// submitted envelope.
type payNode struct {
	callCounter
	balance    string
	nonce      uint64
	sendStatus int
	sendBody   any

	mu        sync.Mutex
	submitted []model.Transaction
}

func (n *payNode) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(n.wrap("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"balance": n.balance, "nonce": n.nonce})
	}))
	mux.HandleFunc(n.wrap("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"staged_transactions": []any{}})
	}))
	mux.HandleFunc(n.wrap("POST /send-tx", func(w http.ResponseWriter, r *http.Request) {
		var tx model.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.mu.Lock()
		n.submitted = append(n.submitted, tx)
		n.mu.Unlock()

		status := n.sendStatus
		if status == 0 {
			status = http.StatusOK
		}
		body := n.sendBody
		if body == nil {
			body = map[string]any{
				"status":    "accepted",
				"tx_hash":   "mockhash123",
				"pool_info": map[string]any{"total_pool_size": 1},
			}
		}
		writeJSON(w, status, body)
	}))
	return mux
}

func TestSendEndToEnd(t *testing.T) {
	node := &payNode{balance: "100", nonce: 3}
	s, _ := newTestSession(t, node.handler())

	resp, err := NewPayer(s, 0).Send(context.Background(), testRecipient, "10.5", "")
	require.NoError(t, err)

	assert.Equal(t, "mockhash123", resp.TxHash)
	assert.Equal(t, uint64(4), resp.Nonce)
	assert.Equal(t, "0.001000", resp.Fee)
	require.NotNil(t, resp.PoolSize)
	assert.Equal(t, 1, *resp.PoolSize)

	require.Len(t, node.submitted, 1)
	tx := node.submitted[0]
	assert.Equal(t, s.Address(), tx.From)
	assert.Equal(t, testRecipient, tx.To)
	assert.Equal(t, "10500000", tx.Amount)
	assert.Equal(t, uint64(4), tx.Nonce)
	assert.Equal(t, "1", tx.OU)
	assert.Empty(t, tx.Message)

	// the node must be able to verify what it received
	canonical, err := CanonicalBytes(&tx)
	require.NoError(t, err)
	sig, err := base64.StdEncoding.DecodeString(tx.Signature)
	require.NoError(t, err)
	pub, err := base64.StdEncoding.DecodeString(tx.PublicKey)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, canonical, sig))
	assert.Equal(t, s.Keys.PublicKey(), pub)
}

func TestSendValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		to     string
		amount string
		err    error
	}{
		{"bad address", "oct123", "1", crypto.ErrInvalidAddress},
		{"zero amount", testRecipient, "0", ErrNonPositiveAmount},
		{"zero decimal", testRecipient, "0.0000001", ErrNonPositiveAmount},
		{"not a number", testRecipient, "ten", ErrInvalidAmount},
		{"negative", testRecipient, "-1", ErrInvalidAmount},
		{"overflows micro units", testRecipient, "18446744073710", ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &payNode{balance: "100", nonce: 0}
			s, _ := newTestSession(t, node.handler())

			_, err := NewPayer(s, 0).Send(context.Background(), tt.to, tt.amount, "")
			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, node.total())
		})
	}
}

func TestSendInsufficientBalance(t *testing.T) {
	node := &payNode{balance: "1", nonce: 0}
	s, _ := newTestSession(t, node.handler())

	_, err := NewPayer(s, 0).Send(context.Background(), testRecipient, "10.5", "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Zero(t, node.count("POST /send-tx"))
}

func TestSendRejected(t *testing.T) {
	node := &payNode{
		balance:    "100",
		sendStatus: http.StatusBadRequest,
		sendBody:   map[string]any{"error": "invalid nonce"},
	}
	s, _ := newTestSession(t, node.handler())

	_, err := NewPayer(s, 0).Send(context.Background(), testRecipient, "1", "")
	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, http.StatusBadRequest, rejection.Status)
	assert.Contains(t, rejection.Payload, "invalid nonce")
}

func TestSendTransportFailure(t *testing.T) {
	s, _ := newSessionAt(t, "http://127.0.0.1:1")

	_, err := NewPayer(s, 0).Send(context.Background(), testRecipient, "1", "")
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestSendCooldown(t *testing.T) {
	node := &payNode{balance: "100", nonce: 0}
	s, clock := newTestSession(t, node.handler())
	payer := NewPayer(s, 5*time.Minute)

	_, err := payer.Send(context.Background(), testRecipient, "1", "")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = payer.Send(context.Background(), testRecipient, "1", "")
	assert.ErrorIs(t, err, ErrCooldown)
	assert.Equal(t, 1, node.count("POST /send-tx"))

	clock.Advance(5 * time.Minute)
	_, err = payer.Send(context.Background(), testRecipient, "1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, node.count("POST /send-tx"))
}

func TestGetBalance(t *testing.T) {
	node := &payNode{balance: "2.5", nonce: 9}
	s, _ := newTestSession(t, node.handler())

	balance, err := GetBalance(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), balance.Address)
	assert.Equal(t, "2.500000", balance.Balance)
	assert.Equal(t, uint64(9), balance.Nonce)
	assert.Equal(t, uint64(9), balance.EffectiveNonce)
}
