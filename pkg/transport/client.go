package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Method is an HTTP method.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// DefaultTimeout bounds a single attempt.
const DefaultTimeout = 3 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL sets a prefix for every request URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithTries sets the default retry budget.
func WithTries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.tries = n
		}
	}
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// WithExecutor sets where settlement callbacks run. Default: inline, on
// the goroutine that performed the request.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client builds and sends requests.
type Client struct {
	http    *http.Client
	baseURL string
	tries   int
	timeout time.Duration
	header  http.Header
	exec    Executor
	logger  *slog.Logger
}

// NewClient creates a client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		header:  make(http.Header),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "transport")
	return c
}

// Get starts a GET request. A JSON body is sent as query parameters.
func (c *Client) Get(url string) *Request { return c.newRequest(MethodGet, url) }

// Post starts a POST request.
func (c *Client) Post(url string) *Request { return c.newRequest(MethodPost, url) }

// Put starts a PUT request.
func (c *Client) Put(url string) *Request { return c.newRequest(MethodPut, url) }

// Patch starts a PATCH request.
func (c *Client) Patch(url string) *Request { return c.newRequest(MethodPatch, url) }

// Delete starts a DELETE request.
func (c *Client) Delete(url string) *Request { return c.newRequest(MethodDelete, url) }

func (c *Client) newRequest(method Method, url string) *Request {
	return &Request{
		client:  c,
		method:  method,
		url:     c.baseURL + url,
		tries:   c.tries,
		timeout: c.timeout,
		header:  c.header.Clone(),
	}
}
