package octra

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common/commontest"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testRecipient = "oct7ffZx9dmRweYnDbecGybaF66gitu9cbWBsJBzNEWF47v"

var (
	testSeed  = bytes.Repeat([]byte{7}, 32)
	testEpoch = time.Unix(1_700_000_000, 0)
)

func testKeys(t *testing.T) *crypto.KeyMaterial {
	t.Helper()
	keys, err := crypto.NewKeyMaterial(testSeed)
	require.NoError(t, err)
	return keys
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestSession points a session at handler with a fake clock and a random
// source that always returns 0.5 / 0.
func newTestSession(t *testing.T, handler http.Handler) (*Session, *commontest.FakeClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newSessionAt(t, srv.URL)
}

func newSessionAt(t *testing.T, url string) (*Session, *commontest.FakeClock) {
	t.Helper()
	clock := commontest.NewFakeClock(testEpoch)
	s := NewSession(testKeys(t), url, discardLogger(),
		WithClock(clock), WithRandom(commontest.FixedRandom{F: 0.5}))
	t.Cleanup(s.Close)
	return s, clock
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// callCounter counts requests per route pattern.
type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) wrap(pattern string, h http.HandlerFunc) (string, http.HandlerFunc) {
	return pattern, func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		if c.calls == nil {
			c.calls = map[string]int{}
		}
		c.calls[pattern]++
		c.mu.Unlock()
		h(w, r)
	}
}

func (c *callCounter) count(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[pattern]
}

func (c *callCounter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}
