// Package backend sends accepted submissions to the resume-editing service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/form"
	"github.com/xrsl/cvlift/pkg/improve"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/retry"
)

const DefaultTimeout = 60 * time.Second

// Config describes how to reach the service.
type Config struct {
	Endpoint  string
	Token     string
	UserAgent string
	Timeout   time.Duration
	Retry     retry.Config
	RateLimit float64 // requests per second, <= 0 disables pacing
}

// Payload is the request body.
type Payload struct {
	Link            string `json:"link"`
	ImprovementType string `json:"improvementType"`
	Instructions    string `json:"instructions,omitempty"`
}

// Response is the body of a successful call.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("resume service: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("resume service: HTTP %d: %s", e.StatusCode, e.Message)
}

var ErrInvalidEndpoint = errors.New("invalid backend endpoint")

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitize strips markup from free text while keeping it readable.
func sanitize(s string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// NewPayload builds the request body for the submitted form.
// The custom option sends its free-text instructions; any other selection is
// sent as the improvement type on its own.
func NewPayload(v form.Values) Payload {
	if v.Custom() {
		return Payload{
			Link:            strings.TrimSpace(v.Link),
			ImprovementType: improve.CustomValue,
			Instructions:    sanitize(v.Instructions),
		}
	}
	return Payload{
		Link:            strings.TrimSpace(v.Link),
		ImprovementType: strings.TrimSpace(v.Selection),
	}
}

// Client talks to the service. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *retry.RateLimiter
}

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, cfg.Endpoint)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "cvlift"
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: retry.NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Endpoint returns the configured URL
func (c *Client) Endpoint() string {
	return c.cfg.Endpoint
}

// Enhance sends the submission and discards the success message.
func (c *Client) Enhance(ctx context.Context, v form.Values) error {
	resp, err := c.Send(ctx, NewPayload(v))
	if err != nil {
		return err
	}
	clog.Debug("resume service accepted request", "status", resp.Status, "message", resp.Message)
	return nil
}

// Send posts p, retrying transient failures as configured.
func (c *Client) Send(ctx context.Context, p Payload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	requestID := uuid.NewString()
	if id, ok := docs.DocumentID(p.Link); ok {
		clog.Debug("sending resume request", "request_id", requestID, "document", id, "type", p.ImprovementType)
	}

	return retry.Do(ctx, c.cfg.Retry, func() (*Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		return c.post(ctx, requestID, body)
	})
}

func (c *Client) post(ctx context.Context, requestID string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retry.Retryable(fmt.Errorf("resume service: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, retry.Retryable(apiErr)
		}
		return nil, apiErr
	}

	var out Response
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	if out.Status == "" {
		out.Status = "ok"
	}
	return &out, nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
