// Package api implements the HTTP client for the VistulaBot backend.
package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	apierrors "github.com/vistula/vistulabot/internal/errors"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 1 << 20

// BackendClient is the surface the rest of the program needs from the backend
type BackendClient interface {
	Ask(ctx context.Context, question string) (string, error)
	Ping(ctx context.Context) (string, error)
	BaseURL() string
	Close()
}

// HTTPDoer is the subset of tls_client.HttpClient used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

// Client talks to the chatbot backend over HTTP
type Client struct {
	httpClient     HTTPDoer
	baseURL        string
	timeoutSeconds int
	logger         zerolog.Logger
	mu             sync.RWMutex
	closed         bool
}

var _ BackendClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default TLS client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the per-request timeout in seconds; zero disables it
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL: base,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	client.logger = client.logger.With().Str("component", "api").Str("backend", base).Logger()

	return client, nil
}

// normalizeBaseURL checks the address and strips trailing slashes
func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", apierrors.NewConfigError("backend_url", err.Error(), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apierrors.NewConfigError("backend_url", fmt.Sprintf("%q must use http or https", raw), nil)
	}
	if u.Host == "" {
		return "", apierrors.NewConfigError("backend_url", fmt.Sprintf("%q has no host", raw), nil)
	}
	return strings.TrimRight(raw, "/"), nil
}

// BaseURL returns the backend base address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base address with a path
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// Close releases idle connections; later calls fail with ErrClientClosed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
