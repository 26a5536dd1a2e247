package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

var errClientClosed = errors.New("rpc client closed")

// Kind tags how a node response could be interpreted.
type Kind int

const (
	// KindTransportFailure means no HTTP response was received (DNS, connect,
	// timeout, cancelled context). Status is 0 and Raw holds the error text.
	KindTransportFailure Kind = iota
	// KindStructured means the body decoded to a JSON object.
	KindStructured
	// KindPlainText means a response arrived but its body is not a JSON object.
	KindPlainText
)

func (k Kind) String() string {
	switch k {
	case KindStructured:
		return "structured"
	case KindPlainText:
		return "plain_text"
	default:
		return "transport_failure"
	}
}

// Response is the normalized result of one node request.
type Response struct {
	Kind   Kind
	Status int
	Raw    string
	JSON   map[string]any // set only for KindStructured
}

// IsTransportFailure reports the status-0 sentinel.
func (r *Response) IsTransportFailure() bool {
	return r.Kind == KindTransportFailure
}

// OK reports HTTP 200.
func (r *Response) OK() bool {
	return r.Status == http.StatusOK
}

// RPCClient issues requests against one node. The underlying connection pool
// is created on first use and released by Close. Instances are safe for
// concurrent use, but each independent run should own its own client.
type RPCClient struct {
	baseURL string
	logger  logrus.FieldLogger

	mu     sync.Mutex
	client *http.Client
	closed bool
}

// NewRPCClient creates a client for the node at baseURL. No connections are
// opened until the first request.
func NewRPCClient(baseURL string, logger logrus.FieldLogger) *RPCClient {
	return &RPCClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// BaseURL returns the node URL requests are sent to.
func (c *RPCClient) BaseURL() string {
	return c.baseURL
}

// httpClient returns the pooled client, creating it on first call.
func (c *RPCClient) httpClient() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errClientClosed
	}
	if c.client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConnsPerHost = 10
		c.client = &http.Client{Transport: transport}
	}
	return c.client, nil
}

// Close releases the connection pool. It is safe to call more than once;
// requests issued afterwards fail as transport failures.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.client != nil {
		c.client.CloseIdleConnections()
		c.client = nil
	}
}

// Request performs method on path with an optional JSON body. It never returns
// a Go error: transport problems come back as KindTransportFailure.
func (c *RPCClient) Request(ctx context.Context, method, path string, body any, timeout time.Duration) *Response {
	return c.RequestWithHeaders(ctx, method, path, nil, body, timeout)
}

// RequestWithHeaders is Request with extra request headers.
func (c *RPCClient) RequestWithHeaders(ctx context.Context, method, path string, headers map[string]string, body any, timeout time.Duration) *Response {
	start := time.Now()
	resp := c.do(ctx, method, path, headers, body, timeout)
	elapsed := time.Since(start)

	metrics.RecordRPC(method, routeOf(path), resp.Status, elapsed)
	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    routeOf(path),
		"status":  resp.Status,
		"kind":    resp.Kind.String(),
		"elapsed": elapsed.Round(time.Millisecond),
	}).Debug("node request")

	return resp
}

func (c *RPCClient) do(ctx context.Context, method, path string, headers map[string]string, body any, timeout time.Duration) *Response {
	httpClient, err := c.httpClient()
	if err != nil {
		return transportFailure(err)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return transportFailure(fmt.Errorf("failed to marshal request: %w", err))
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportFailure(fmt.Errorf("failed to create request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpResp, err := httpClient.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return transportFailure(fmt.Errorf("failed to read response: %w", err))
	}

	return classify(httpResp.StatusCode, string(data))
}

// classify decodes body as a JSON object when possible. Decoding problems are
// not errors: the caller falls back to Raw.
func classify(status int, text string) *Response {
	resp := &Response{Kind: KindPlainText, Status: status, Raw: text}
	if strings.TrimSpace(text) == "" {
		return resp
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return resp
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return resp
	}

	resp.Kind = KindStructured
	resp.JSON = obj
	return resp
}

func transportFailure(err error) *Response {
	return &Response{Kind: KindTransportFailure, Status: 0, Raw: err.Error()}
}

// routeOf reduces a concrete path to its first segment for metric labels.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}
