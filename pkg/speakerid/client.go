// Package speakerid is a client for a remote text-independent
// speaker-verification service. The service holds voice profiles
// server-side: a profile is created once, enrolled with one or more
// audio samples, and then verifies probe audio against the enrolled
// voice, returning an accept/reject decision with a confidence score.
package speakerid

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retries for
	// transient errors.
	DefaultMaxRetries = 3

	// DefaultLocale is the enrollment locale used when none is given.
	DefaultLocale = "en-US"
)

// Client is the speaker-verification API client.
type Client struct {
	config *clientConfig
	http   *httpClient
}

type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

// Option configures the client.
type Option func(*clientConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) { c.timeout = timeout }
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) { c.maxRetries = maxRetries }
}

// NewClient creates a speaker-verification client.
//
// baseURL is the service endpoint (region-specific); apiKey is the
// subscription key sent with every request.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{
		apiKey:     apiKey,
		baseURL:    baseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}
	return &Client{config: cfg, http: newHTTPClient(cfg)}
}

// BaseURL returns the configured service endpoint.
func (c *Client) BaseURL() string { return c.config.baseURL }
