package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/ports"
)

// maxErrorBody bounds how much of a failed response is quoted in the error.
const maxErrorBody = 4 << 10

// Client evaluates expressions on a remote server.
type Client struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

var _ ports.Evaluator = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a client for the server at base, e.g. "http://localhost:8001".
func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Evaluate posts the request to {base}/ui. Non-2xx answers wrap
// domain.ErrEvaluationRejected.
func (c *Client) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	var resp domain.Response
	if err := c.do(ctx, http.MethodPost, "/ui", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Startup fetches the initial session payload from {base}/startup.
func (c *Client) Startup(ctx context.Context) (*domain.StartupResponse, error) {
	var resp domain.StartupResponse
	if err := c.do(ctx, http.MethodGet, "/startup", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.base, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		c.logger.Debug("evaluation server refused request", "path", path, "status", res.StatusCode)
		return fmt.Errorf("%w: %s: %s", domain.ErrEvaluationRejected, res.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
