package gsa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// HTTPResponse is the part of an upstream response the client consumes.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// Transport performs requests against a GSA base URL. Paths include the
// query string.
type Transport interface {
	Get(ctx context.Context, path string) (*HTTPResponse, error)
	Post(ctx context.Context, path string) (*HTTPResponse, error)
}

// TransportFactory returns a Transport bound to baseURL.
type TransportFactory func(baseURL string) Transport

// Logger is the logging surface the client needs. Both *zap.Logger and
// the gofulmen logger satisfy it.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// Observer is notified after every upstream round trip.
type Observer interface {
	ObserveRequest(endpoint, method string, statusCode int, duration time.Duration, err error)
}

// HTTPTransport is a Transport over net/http. Status codes are not
// interpreted; non-2xx responses are logged and returned as-is.
type HTTPTransport struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Logger    Logger
	Observer  Observer
}

// NewHTTPTransport returns an HTTPTransport with a bounded client timeout.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Get(ctx context.Context, path string) (*HTTPResponse, error) {
	return t.do(ctx, http.MethodGet, path)
}

func (t *HTTPTransport) Post(ctx context.Context, path string) (*HTTPResponse, error) {
	return t.do(ctx, http.MethodPost, path)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string) (*HTTPResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := strings.TrimSuffix(t.BaseURL, "/") + path
	endpoint := endpointOf(path)

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		t.observe(endpoint, method, 0, time.Since(start), err)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	t.observe(endpoint, method, resp.StatusCode, duration, err)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, endpoint, err)
	}

	logger := t.logger()
	logger.Debug("GSA request completed",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.Int("bytes", len(body)))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("GSA returned non-success status",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
	}

	return &HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func (t *HTTPTransport) observe(endpoint, method string, status int, d time.Duration, err error) {
	if t.Observer != nil {
		t.Observer.ObserveRequest(endpoint, method, status, d, err)
	}
}

func (t *HTTPTransport) logger() Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}

// endpointOf strips the query string so logs and metrics stay low-cardinality.
func endpointOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
