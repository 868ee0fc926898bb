// Package gsa is a client for the Google Search Appliance search and
// autosuggest HTTP endpoints.
package gsa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Client issues search and autosuggest requests. It keeps the last merged
// option sets and uses them as the base for the next call, so a field set
// once stays in effect until overridden.
type Client struct {
	mu             sync.Mutex
	searchDefaults SearchOptions
	suggestDefault SuggestOptions

	newTransport TransportFactory
	rootURL      string
	timeout      time.Duration
	userAgent    string
	logger       Logger
	observer     Observer
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(factory TransportFactory) Option {
	return func(c *Client) { c.newTransport = factory }
}

// WithSearchDefaults seeds the stored search options.
func WithSearchDefaults(opts SearchOptions) Option {
	return func(c *Client) { c.searchDefaults = opts }
}

// WithSuggestDefaults seeds the stored suggest options.
func WithSuggestDefaults(opts SuggestOptions) Option {
	return func(c *Client) { c.suggestDefault = opts }
}

// WithRootURL sets the prefix of "more results" links. Defaults to the GSA URL.
func WithRootURL(root string) Option {
	return func(c *Client) { c.rootURL = root }
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header on upstream requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for upstream request logging.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver registers a request observer, typically for metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient returns a Client seeded with the documented defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		searchDefaults: DefaultSearchOptions(),
		suggestDefault: DefaultSuggestOptions(),
		timeout:        defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.newTransport == nil {
		c.newTransport = c.httpTransport
	}
	return c
}

func (c *Client) httpTransport(baseURL string) Transport {
	t := NewHTTPTransport(baseURL, c.timeout)
	t.UserAgent = c.userAgent
	t.Logger = c.logger
	t.Observer = c.observer
	return t
}

// SearchDefaults returns the stored search options.
func (c *Client) SearchDefaults() SearchOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchDefaults
}

// SuggestDefaults returns the stored suggest options.
func (c *Client) SuggestDefaults() SuggestOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suggestDefault
}

// Reset restores the documented defaults.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchDefaults = DefaultSearchOptions()
	c.suggestDefault = DefaultSuggestOptions()
}

// Search merges params onto the stored options and performs the request
// selected by the output option. The merged options are stored only when
// validation succeeds.
func (c *Client) Search(ctx context.Context, params Params) (*SearchResponse, error) {
	c.mu.Lock()
	opts, err := MergeSearchOptions(c.searchDefaults, params)
	if err == nil {
		c.searchDefaults = opts
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.SearchWith(ctx, opts)
}

// SearchWith performs a search with fully merged options, leaving the
// stored options untouched.
func (c *Client) SearchWith(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	switch opts.Output {
	case OutputJSON:
		return c.searchJSON(ctx, opts)
	case OutputXML:
		return c.searchXML(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutput, opts.Output)
	}
}

func (c *Client) searchJSON(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	resp, err := c.newTransport(opts.BaseURL).Post(ctx, JSONSearchURL(opts))
	if err != nil {
		return nil, err
	}
	value, err := decodeJSON(resp.Body)
	if err != nil {
		return nil, err
	}
	return &SearchResponse{Kind: KindJSON, JSON: value}, nil
}

// decodeJSON returns an empty map for an empty body or an empty decoded value.
func decodeJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, &DecodeError{Format: string(OutputJSON), Err: err}
	}
	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		if len(v) == 0 {
			return map[string]any{}, nil
		}
	case []any:
		if len(v) == 0 {
			return map[string]any{}, nil
		}
	case string:
		if v == "" {
			return map[string]any{}, nil
		}
	}
	return value, nil
}

func (c *Client) searchXML(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	path := XMLSearchURL(opts)
	transport := c.newTransport(opts.BaseURL)

	if strings.Contains(path, "cache") {
		target := cacheRequestURL(path)
		resp, err := transport.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		return &SearchResponse{
			Kind:       KindCache,
			CachedPage: &CachedPage{URL: target, Body: string(resp.Body)},
		}, nil
	}

	resp, err := transport.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	result, err := ParseSearchXML(resp.Body, ParseContext{BaseURL: opts.BaseURL, RootURL: c.rootURL})
	if err != nil {
		return nil, err
	}
	return &SearchResponse{Kind: KindXML, Result: result}, nil
}

// Suggest merges params onto the stored suggest options and returns the
// raw autosuggest body.
func (c *Client) Suggest(ctx context.Context, params Params) (*Suggestion, error) {
	c.mu.Lock()
	opts, err := MergeSuggestOptions(c.suggestDefault, params)
	if err == nil {
		c.suggestDefault = opts
	}
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.SuggestWith(ctx, opts)
}

// SuggestWith performs an autosuggest request with fully merged options.
func (c *Client) SuggestWith(ctx context.Context, opts SuggestOptions) (*Suggestion, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	var path string
	switch opts.Format {
	case FormatRich:
		path = RichSuggestURL(opts)
	case FormatOS:
		path = OpenSearchSuggestURL(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
	resp, err := c.newTransport(opts.BaseURL).Post(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Suggestion{Format: opts.Format, Body: string(resp.Body)}, nil
}

var (
	defaultClient     *Client
	defaultClientOnce sync.Once
)

// DefaultClient returns the process-wide client, created on first use.
func DefaultClient() *Client {
	defaultClientOnce.Do(func() {
		defaultClient = NewClient()
	})
	return defaultClient
}

// Search runs Client.Search on the process-wide client.
func Search(ctx context.Context, params Params) (*SearchResponse, error) {
	return DefaultClient().Search(ctx, params)
}

// Suggest runs Client.Suggest on the process-wide client.
func Suggest(ctx context.Context, params Params) (*Suggestion, error) {
	return DefaultClient().Suggest(ctx, params)
}
