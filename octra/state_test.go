package octra

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagingOf(entries ...map[string]any) map[string]any {
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	return map[string]any{"staged_transactions": list}
}

func TestResolveUsesHighestStagedNonce(t *testing.T) {
	self := testKeys(t).Address()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, self, r.PathValue("addr"))
		writeJSON(w, http.StatusOK, map[string]any{"balance": "12.5", "nonce": 3})
	})
	mux.HandleFunc("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stagingOf(
			map[string]any{"from": self, "nonce": 5},
			map[string]any{"from": self, "nonce": 4},
			map[string]any{"from": testRecipient, "nonce": 9},
		))
	})
	s, _ := newTestSession(t, mux)

	state, err := s.Resolver().Resolve(context.Background(), self)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), state.ConfirmedNonce)
	assert.Equal(t, uint64(12_500_000), state.ConfirmedBalance)
	assert.Equal(t, uint64(5), state.EffectiveNonce)
	assert.Equal(t, uint64(6), state.NextNonce())
}

func TestResolveStagedBelowConfirmed(t *testing.T) {
	self := testKeys(t).Address()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"balance": 1, "nonce": 10})
	})
	mux.HandleFunc("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stagingOf(map[string]any{"from": self, "nonce": 2}))
	})
	s, _ := newTestSession(t, mux)

	state, err := s.Resolver().Resolve(context.Background(), self)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), state.EffectiveNonce)
	assert.Equal(t, uint64(1_000_000), state.ConfirmedBalance)
}

func TestResolveUnknownAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stagingOf())
	})
	s, _ := newTestSession(t, mux)

	state, err := s.Resolver().Resolve(context.Background(), s.Address())
	require.NoError(t, err)
	assert.Equal(t, AccountState{}, *state)
	assert.Equal(t, uint64(1), state.NextNonce())
}

func TestResolvePlainTextBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("7.25 11"))
	})
	mux.HandleFunc("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stagingOf())
	})
	s, _ := newTestSession(t, mux)

	state, err := s.Resolver().Resolve(context.Background(), s.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(7_250_000), state.ConfirmedBalance)
	assert.Equal(t, uint64(11), state.ConfirmedNonce)
}

func TestResolveIndeterminate(t *testing.T) {
	for name, body := range map[string]string{
		"single token":  "42",
		"non-numeric":   "lots many",
		"empty object":  "{}",
		"no state keys": `{"address":"oct"}`,
	} {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			s, _ := newTestSession(t, mux)

			_, err := s.Resolver().Resolve(context.Background(), s.Address())
			assert.ErrorIs(t, err, ErrIndeterminateState)

			var protocolErr *ProtocolError
			assert.True(t, errors.As(err, &protocolErr))
		})
	}
}

func TestResolveServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	s, _ := newTestSession(t, mux)

	_, err := s.Resolver().Resolve(context.Background(), s.Address())
	var protocolErr *ProtocolError
	require.True(t, errors.As(err, &protocolErr))
	assert.Equal(t, http.StatusInternalServerError, protocolErr.Status)
	assert.Contains(t, protocolErr.Body, "boom")
}

func TestResolveTransportFailure(t *testing.T) {
	s, _ := newSessionAt(t, "http://127.0.0.1:1")

	_, err := s.Resolver().Resolve(context.Background(), s.Address())
	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestResolveStagingFailureIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /balance/{addr}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"balance": "2", "nonce": 4})
	})
	mux.HandleFunc("GET /staging", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	s, _ := newTestSession(t, mux)

	state, err := s.Resolver().Resolve(context.Background(), s.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), state.EffectiveNonce)
}
