// Package client talks to the EchoMind /chat endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultEndpoint is the local backend the widget targets when nothing else is configured.
const DefaultEndpoint = "http://localhost:8000/chat"

// ErrChatRequestFailed covers network errors, non-2xx statuses and malformed replies alike.
var ErrChatRequestFailed = errors.New("chat request failed")

// Client posts journal entries to the chat endpoint and returns the assistant reply.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport. The default client has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client for endpoint, falling back to DefaultEndpoint when empty.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	AIResponse *string `json:"ai_response"`
}

// Send posts text and returns the ai_response field. Every failure wraps ErrChatRequestFailed.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{Text: text})
	if err != nil {
		return "", errors.Wrapf(ErrChatRequestFailed, "encode request: %v", err)
	}

	requestID := uuid.NewString()
	logger := c.logger.With().Str("request_id", requestID).Str("endpoint", c.endpoint).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(ErrChatRequestFailed, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	logger.Debug().Int("chars", len(text)).Msg("sending chat request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrChatRequestFailed, "post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", errors.Wrapf(ErrChatRequestFailed, "unexpected status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrapf(ErrChatRequestFailed, "decode response: %v", err)
	}
	if out.AIResponse == nil {
		return "", errors.Wrap(ErrChatRequestFailed, "response has no ai_response field")
	}

	logger.Debug().Int("chars", len(*out.AIResponse)).Msg("chat reply received")
	return *out.AIResponse, nil
}
