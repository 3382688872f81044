// Package a2a implements the agent-to-agent request protocol: an
// agent.Request JSON-encoded as the body of an HTTP POST to the peer agent's
// endpoint, answered with an agent.Response. The client side retries with
// exponential backoff (capability execution is idempotent for identical
// inputs, so a resend is safe) and converts transport failures into
// well-formed failure responses instead of surfacing raw errors.
package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/greenmesh/agent"
	"github.com/hupe1980/greenmesh/logging"
)

// DispatchPath is the peer endpoint receiving capability invocations.
const DispatchPath = "/a2a/dispatch"

// HealthPath is the peer endpoint reporting agent health.
const HealthPath = "/a2a/health"

// ClientOptions configure an a2a Client. MaxRetries is the total number of
// dispatch attempts and is clamped to a minimum of one.
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client invokes capabilities on a remote agent. It satisfies
// workflow.Dispatcher so remote agents slot into workflows like local ones.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	logger     logging.Logger
}

// NewClient creates a Client for the peer agent at baseURL.
func NewClient(baseURL string, optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		client:     client,
		logger:     opts.Logger,
	}
}

// Dispatch sends the request to the peer and returns its response. Transport
// failures after all retries yield a failure Response with DATA_UNAVAILABLE;
// Dispatch never panics and never returns a malformed response.
func (c *Client) Dispatch(ctx context.Context, req agent.Request) agent.Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.send(ctx, req)
		if err == nil {
			return resp
		}
		lastErr = err

		c.logger.Warn("a2a.dispatch.attempt_failed",
			"peer", c.baseURL, "request_id", req.ID,
			"attempt", attempt, "error", err.Error())

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = c.maxRetries
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	return agent.Response{
		RequestID: req.ID,
		Success:   false,
		Error: &agent.ErrorDetail{
			Code:    agent.CodeDataUnavailable,
			Message: fmt.Sprintf("peer agent unreachable: %v", lastErr),
		},
	}
}

func (c *Client) send(ctx context.Context, req agent.Request) (agent.Response, error) {
	var resp agent.Response

	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("encode request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+DispatchPath, bytes.NewReader(body))
	if err != nil {
		return resp, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return resp, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("decode response: %w", err)
	}

	return resp, nil
}

// Health fetches the peer agent's health payload.
func (c *Client) Health(ctx context.Context) (agent.HealthStatus, error) {
	var status agent.HealthStatus

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return status, err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return status, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	err = json.NewDecoder(httpResp.Body).Decode(&status)
	return status, err
}
