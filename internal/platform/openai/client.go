// Package openai is a minimal Chat Completions client: one user message in,
// the first choice's text out.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/httpx"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	maxBackoff     = 10 * time.Second
	maxErrorBody   = 512
)

// Client retries little on purpose: a failed tier falls through to the next one.
type Client struct {
	log     *logger.Logger
	http    *http.Client
	baseURL string
	apiKey  string
	retries int
	backoff time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets how many times a retryable failure is repeated and the
// first backoff step.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) { c.retries, c.backoff = n, backoff }
}

// NewClient reads OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_TIMEOUT_SECONDS and
// OPENAI_MAX_RETRIES. It fails when no key is set.
func NewClient(log *logger.Logger, opts ...Option) (*Client, error) {
	key := envutil.String("OPENAI_API_KEY", "")
	if key == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	c := &Client{
		log:     log.With("client", "OpenAI"),
		http:    &http.Client{Timeout: envutil.Duration("OPENAI_TIMEOUT_SECONDS", 120*time.Second)},
		baseURL: strings.TrimRight(envutil.String("OPENAI_BASE_URL", defaultBaseURL), "/"),
		apiKey:  key,
		retries: envutil.Int("OPENAI_MAX_RETRIES", 1),
		backoff: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// APIError is a non-2xx reply. Message is the provider's error text when the
// body carries one, otherwise the raw body, clipped.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("openai: status %d: %s", e.Status, e.Message) }

func (e *APIError) HTTPStatusCode() int { return e.Status }

func newAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return &APIError{Status: status, Message: msg}
}

var errNoChoices = errors.New("openai: response has no choices")

// Invoke sends prompt as a single user message to model.
func (c *Client) Invoke(ctx context.Context, prompt, model string) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: model, Messages: []message{{Role: "user", Content: prompt}}})
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}

	var body []byte
	for attempt := 1; ; attempt++ {
		var resp *http.Response
		resp, body, err = c.post(ctx, "/chat/completions", payload)
		if err == nil {
			break
		}
		if attempt > c.retries || !httpx.IsRetryableError(err) || ctx.Err() != nil {
			return "", err
		}
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, c.backoff, maxBackoff), maxBackoff))
		c.log.Warn("chat completion retrying", "model", model, "attempt", attempt, "wait", wait.String(), "error", err)
		if httpx.Sleep(ctx, wait) != nil {
			return "", err
		}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errNoChoices
	}
	return out.Choices[0].Message.Content, nil
}

// post sends one request. The response is returned even on error so that
// Retry-After can be honoured.
func (c *Client) post(ctx context.Context, path string, payload []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return resp, body, newAPIError(resp.StatusCode, body)
	}
	return resp, body, nil
}
