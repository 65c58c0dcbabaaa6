package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yildizm/ocrsnap/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 8 << 20

// Config holds client settings
type Config struct {
	// BaseURL is the service root; workflow paths are appended to it
	BaseURL string `json:"base_url"`

	// Timeout for a whole request, zero means none
	Timeout time.Duration `json:"timeout"`

	// UserAgent sent with every request
	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns the client defaults
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   60 * time.Second,
		UserAgent: "ocrsnap",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got %q", u.Scheme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

// Client sends form submissions to the OCR service. Every call is exactly
// one unauthenticated POST; nothing is retried.
type Client struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
	log     *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the client logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithComponent("ocr")
		}
	}
}

// New creates a client
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		config:  config,
		baseURL: baseURL,
		// No cookie jar: requests never carry credentials.
		client: &http.Client{Timeout: config.Timeout},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the full URL for a workflow
func (c *Client) Endpoint(w Workflow) string {
	return c.baseURL.JoinPath(w.Path()).String()
}

// Process sends the request and parses the response. Returned errors are
// always *Error values.
func (c *Client) Process(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	endpoint := c.Endpoint(req.Workflow)

	body, contentType, err := req.Encode()
	if err != nil {
		return nil, NewTransportError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, NewTransportError(err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.log.Debug("sending request",
		logger.Workflow(req.Workflow),
		logger.F("endpoint", endpoint),
		logger.F("upload", req.IsUpload()),
		logger.F("bytes", len(body)))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Debug("request failed", logger.Error(err), logger.Duration(time.Since(start)))
		return nil, NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewTransportError(fmt.Errorf("failed to read response: %w", err))
	}

	c.log.Debug("response received",
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewServerError(resp.StatusCode, statusText(resp), decodeErrorMessage(data))
	}

	result, err := DecodeResult(req.Workflow, data)
	if err != nil {
		return nil, NewTransportError(fmt.Errorf("invalid response body: %w", err))
	}
	return result, nil
}

// statusText returns the reason phrase of the status line, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
