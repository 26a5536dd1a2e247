package octra

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		resp     *client.Response
		accepted bool
		hash     string
		outcome  string
	}{
		{
			name: "structured accepted",
			resp: &client.Response{Kind: client.KindStructured, Status: 200, JSON: map[string]any{
				"status": "accepted", "tx_hash": "abc123",
			}},
			accepted: true, hash: "abc123", outcome: OutcomeAccepted,
		},
		{
			name:     "plain ok",
			resp:     &client.Response{Kind: client.KindPlainText, Status: 200, Raw: "OK deadbeef"},
			accepted: true, hash: "deadbeef", outcome: OutcomeAccepted,
		},
		{
			name:     "plain ok lowercase",
			resp:     &client.Response{Kind: client.KindPlainText, Status: 200, Raw: "ok tx hash ffee\n"},
			accepted: true, hash: "ffee", outcome: OutcomeAccepted,
		},
		{
			name: "structured not accepted",
			resp: &client.Response{Kind: client.KindStructured, Status: 200, Raw: `{"status":"queued"}`, JSON: map[string]any{
				"status": "queued",
			}},
			hash: `{"status":"queued"}`, outcome: OutcomeRejected,
		},
		{
			name: "plain other",
			resp: &client.Response{Kind: client.KindPlainText, Status: 200, Raw: "duplicate"},
			hash: "duplicate", outcome: OutcomeRejected,
		},
		{
			name: "error status structured",
			resp: &client.Response{Kind: client.KindStructured, Status: 400, Raw: "{\"error\": \"bad nonce\"}", JSON: map[string]any{
				"error": "bad nonce",
			}},
			hash: `{"error":"bad nonce"}`, outcome: OutcomeRejected,
		},
		{
			name: "error status with ok text",
			resp: &client.Response{Kind: client.KindPlainText, Status: 500, Raw: "ok but not really"},
			hash: "ok but not really", outcome: OutcomeRejected,
		},
		{
			name: "transport",
			resp: &client.Response{Kind: client.KindTransportFailure, Raw: "connection refused"},
			hash: "connection refused", outcome: OutcomeTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.resp)
			assert.Equal(t, tt.accepted, result.Accepted)
			assert.Equal(t, tt.hash, result.Hash)
			assert.Equal(t, tt.outcome, result.Outcome())
		})
	}
}

func TestClassifyPoolSize(t *testing.T) {
	result := Classify(&client.Response{Kind: client.KindStructured, Status: 200, JSON: map[string]any{
		"status":    "accepted",
		"tx_hash":   "h",
		"pool_info": map[string]any{"total_pool_size": json.Number("17")},
	}})
	require.NotNil(t, result.PoolSize)
	assert.Equal(t, 17, *result.PoolSize)

	result = Classify(&client.Response{Kind: client.KindStructured, Status: 200, JSON: map[string]any{
		"status": "accepted", "tx_hash": "h",
	}})
	assert.Nil(t, result.PoolSize)
}

func TestSubmitMeasuresElapsed(t *testing.T) {
	var clockRef interface{ Advance(time.Duration) }

	mux := http.NewServeMux()
	mux.HandleFunc("POST /send-tx", func(w http.ResponseWriter, r *http.Request) {
		clockRef.Advance(1500 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]any{"status": "accepted", "tx_hash": "h1"})
	})
	s, clock := newTestSession(t, mux)
	clockRef = clock

	built, err := s.Builder().Build(testRecipient, 1_000, 1, "")
	require.NoError(t, err)

	result := s.Submitter().Submit(context.Background(), built.Tx)
	assert.True(t, result.Accepted)
	assert.Equal(t, "h1", result.Hash)
	assert.Equal(t, 1500*time.Millisecond, result.Elapsed)
}
