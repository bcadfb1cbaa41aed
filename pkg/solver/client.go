package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-solverform/pkg/contract"
)

// DefaultEndpoint matches the service address the form was built against.
const DefaultEndpoint = "http://localhost:5000/solve"

const defaultMaxResponseBytes int64 = 64 << 20

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client submits models to the solving service.
type Client struct {
	endpoint         string
	method           string
	doer             HTTPDoer
	contract         *contract.Contract
	logger           *zap.Logger
	maxResponseBytes int64
	requestTimeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithContract validates replies against the contract response schema and
// takes the operation path and method from it.
func WithContract(ct *contract.Contract) Option {
	return func(c *Client) {
		c.contract = ct
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestTimeout bounds each request. Zero waits indefinitely.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

// WithMaxResponseBytes caps how much of a reply body is read.
func WithMaxResponseBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxResponseBytes = limit
		}
	}
}

// NewClient builds a client for endpoint. When a contract is supplied and
// endpoint carries no path, the contract path is appended.
func NewClient(endpoint string, options ...Option) (*Client, error) {
	c := &Client{
		method:           http.MethodPost,
		logger:           zap.NewNop(),
		maxResponseBytes: defaultMaxResponseBytes,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}

	resolved, err := c.resolveEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c.endpoint = resolved
	if c.contract != nil && c.contract.Method != "" {
		c.method = c.contract.Method
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.requestTimeout}
	}
	return c, nil
}

func (c *Client) resolveEndpoint(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEndpointRequired
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("solver: parse endpoint %q: %w", trimmed, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("solver: endpoint %q must be an absolute URL", trimmed)
	}
	if c.contract != nil && (parsed.Path == "" || parsed.Path == "/") {
		parsed.Path = c.contract.Path
	}
	return parsed.String(), nil
}

// Endpoint returns the resolved URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Solve performs one submission. Any failure to obtain a well-formed reply
// is returned as *TransportError; an application level failure is a normal
// Response whose Succeeded reports false.
func (c *Client) Solve(ctx context.Context, sub Submission) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var body bytes.Buffer
	contentType, err := sub.Encode(&body)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.endpoint, &body)
	if err != nil {
		return Response{}, &TransportError{Op: OpRequest, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	c.logger.Debug("submitting model",
		zap.String("endpoint", c.endpoint),
		zap.String("input_type", string(sub.InputType)),
		zap.Int("timeout", sub.Timeout),
		zap.Int("bytes", body.Len()),
	)

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Warn("solver request failed", zap.Error(err), zap.Duration("duration", time.Since(started)))
		return Response{}, &TransportError{Op: OpRequest, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes))
	if err != nil {
		return Response{}, &TransportError{Op: OpRequest, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("solver returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", time.Since(started)),
		)
		return Response{}, &TransportError{
			Op:         OpStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := c.contract.ValidateResponse(payload); err != nil {
		return Response{}, &TransportError{Op: OpDecode, StatusCode: resp.StatusCode, Err: err}
	}

	var out Response
	if err := json.Unmarshal(payload, &out); err != nil {
		return Response{}, &TransportError{Op: OpDecode, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Info("solver replied",
		zap.String("status", out.Status),
		zap.Bool("image", out.HasImage()),
		zap.Duration("duration", time.Since(started)),
	)
	return out, nil
}
