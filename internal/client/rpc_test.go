package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind Kind
	}{
		{"object", `{"balance":"1.5","nonce":2}`, KindStructured},
		{"object with whitespace", " {\"a\":1}\n", KindStructured},
		{"array", `[1,2]`, KindPlainText},
		{"string", `"ok"`, KindPlainText},
		{"null", `null`, KindPlainText},
		{"trailing tokens", `{"a":1} {"b":2}`, KindPlainText},
		{"plain", "OK 0xabc", KindPlainText},
		{"empty", "", KindPlainText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := classify(http.StatusOK, tt.body)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.body, resp.Raw)
			assert.Equal(t, http.StatusOK, resp.Status)
			if tt.kind == KindStructured {
				assert.NotNil(t, resp.JSON)
			} else {
				assert.Nil(t, resp.JSON)
			}
		})
	}
}

func TestClassifyUsesNumbers(t *testing.T) {
	resp := classify(http.StatusOK, `{"nonce":12345678901234}`)
	require.Equal(t, KindStructured, resp.Kind)
	assert.Equal(t, json.Number("12345678901234"), resp.JSON["nonce"])
}

func TestRequest(t *testing.T) {
	var gotBody map[string]any
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send-tx", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotHeader = r.Header.Get("X-Private-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad nonce"}`))
	}))
	defer srv.Close()

	c := NewRPCClient(srv.URL+"/", testLogger())
	defer c.Close()

	resp := c.RequestWithHeaders(context.Background(), http.MethodPost, "/send-tx",
		map[string]string{"X-Private-Key": "k"}, map[string]string{"from": "a"}, time.Second)

	assert.Equal(t, KindStructured, resp.Kind)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.False(t, resp.OK())
	assert.Equal(t, "bad nonce", resp.JSON["error"])
	assert.Equal(t, "a", gotBody["from"])
	assert.Equal(t, "k", gotHeader)
}

func TestRequestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewRPCClient(url, testLogger())
	defer c.Close()

	resp := c.Request(context.Background(), http.MethodGet, "/balance/x", nil, time.Second)
	assert.True(t, resp.IsTransportFailure())
	assert.Equal(t, 0, resp.Status)
	assert.NotEmpty(t, resp.Raw)
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewRPCClient(srv.URL, testLogger())
	defer c.Close()

	resp := c.Request(context.Background(), http.MethodGet, "/staging", nil, 50*time.Millisecond)
	assert.True(t, resp.IsTransportFailure())
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewRPCClient(srv.URL, testLogger())
	resp := c.Request(context.Background(), http.MethodGet, "/staging", nil, time.Second)
	require.Equal(t, KindPlainText, resp.Kind)

	c.Close()
	c.Close()

	resp = c.Request(context.Background(), http.MethodGet, "/staging", nil, time.Second)
	assert.True(t, resp.IsTransportFailure())
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/balance", routeOf("/balance/octabc"))
	assert.Equal(t, "/staging", routeOf("/staging"))
	assert.Equal(t, "/pending_private_transfers", routeOf("/pending_private_transfers?address=oct"))
}

func TestToOpResult(t *testing.T) {
	ok := toOpResult(classify(http.StatusOK, `{"tx_hash":"h"}`))
	assert.True(t, ok.OK)
	assert.Equal(t, "h", ok.Result["tx_hash"])

	withError := toOpResult(classify(http.StatusOK, `{"error":"no funds"}`))
	assert.False(t, withError.OK)
	assert.Equal(t, "no funds", withError.Error)

	status := toOpResult(classify(http.StatusInternalServerError, `{"detail":"x"}`))
	assert.False(t, status.OK)
	assert.Equal(t, "status 500", status.Error)

	text := toOpResult(classify(http.StatusOK, "gateway timeout"))
	assert.False(t, text.OK)
	assert.Equal(t, "gateway timeout", text.Error)

	transport := toOpResult(transportFailure(context.DeadlineExceeded))
	assert.False(t, transport.OK)
	assert.NotEmpty(t, transport.Error)
}
