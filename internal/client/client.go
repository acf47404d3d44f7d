// Package client performs single, fully buffered HTTP exchanges for JSON API calls.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client wraps http.Client. Connections are never reused between calls.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	log        logrus.FieldLogger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a custom header to all requests.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogger sets the logger used for per-exchange debug lines.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a new Client with the given options.
func New(opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		headers: make(map[string]string),
		log:     discard,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Request describes one exchange.
type Request struct {
	Scheme        string
	Host          string
	Port          int // 0 uses the scheme default
	Path          string
	Method        string
	Authorization string // sent only when non-empty
	Body          []byte // nil sends no body
}

// URL assembles the absolute request URL.
func (r Request) URL() string {
	host := r.Host
	if r.Port > 0 {
		host = net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
	}
	u := url.URL{Scheme: r.Scheme, Host: host}
	// Path may carry a query string.
	path := r.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u.String() + path
}

// Result is the raw, unclassified outcome of an exchange.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// Do sends req and reads the whole response body before returning.
// Transport failures are returned unwrapped.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Apply default headers
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.WithError(err).WithField("url", req.URL()).Debug("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start)

	c.log.WithFields(logrus.Fields{
		"method":    req.Method,
		"url":       req.URL(),
		"status":    resp.StatusCode,
		"latencyMs": latency.Milliseconds(),
		"bytes":     len(body),
	}).Debug("exchange complete")

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(body),
	}, nil
}
