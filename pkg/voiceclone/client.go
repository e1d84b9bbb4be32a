// Package voiceclone is a client for a voice-cloning service: upload
// reference recordings, build a cloned voice from them, and synthesize
// arbitrary speech in that voice.
package voiceclone

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default request timeout. Synthesis can be
	// slow, so it is generous.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is the default maximum number of retries.
	DefaultMaxRetries = 3
)

// Client is the voice-cloning API client.
type Client struct {
	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// NewClient creates a new voice-cloning API client for the given
// service endpoint.
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
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}

	return &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
