package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRateLimit = 20 // requests per second, client-side throttle
	getRetryAttempts = 3
	getRetryDelay    = 300 * time.Millisecond
)

// TokenSource supplies the bearer token attached to every request. An empty
// token means the request goes out unauthenticated, which the API accepts
// for the public catalog endpoints.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token. Useful in tests and
// for short-lived tooling.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Error is a non-2xx API response. Detail carries the server's `detail`
// field verbatim when it was a plain string; otherwise a generic message.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
}

// ErrorDetail extracts the user-facing message from err when it wraps an
// *Error, falling back to the provided generic message.
func ErrorDetail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// Client performs authenticated JSON requests against the CineMind API.
// It owns the ambient request concerns: bearer auth, request ids, client-side
// rate limiting and bounded retry for idempotent GETs.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	log     *logrus.Logger
}

type ClientConfig struct {
	BaseURL   string
	Tokens    TokenSource
	HTTPC     *http.Client
	RateLimit int // requests per second; 0 uses the default
	Logger    *logrus.Logger
}

func NewClient(cfg ClientConfig) *Client {
	httpc := cfg.HTTPC
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   httpc,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(limit), limit),
		log:     log,
	}
}

// Get fetches path (plus optional query) and decodes the JSON response into
// v. Transient failures (network errors, 429, 5xx) are retried with backoff;
// other non-2xx statuses fail immediately with an *Error.
func (c *Client) Get(ctx context.Context, path string, query url.Values, v any) error {
	return retry.Do(
		func() error {
			return c.do(ctx, http.MethodGet, path, query, nil, v)
		},
		retry.Context(ctx),
		retry.Attempts(getRetryAttempts),
		retry.Delay(getRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.log.WithFields(logrus.Fields{"path": path, "attempt": n + 1}).
				WithError(err).Warn("retrying request")
		}),
	)
}

// Post sends body as JSON to path and decodes the response into v when v is
// non-nil. Mutations are never retried.
func (c *Client) Post(ctx context.Context, path string, body, v any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, v)
}

// Delete issues a DELETE to path. Never retried.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return retry.Unrecoverable(err)
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return retry.Unrecoverable(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("read token: %w", err))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return decodeError(resp)
	}
	if resp.StatusCode >= 400 {
		return retry.Unrecoverable(decodeError(resp))
	}

	if v == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// decodeError reads a non-2xx body. FastAPI-style errors carry
// {"detail": "..."} where detail is a string for domain errors and an array
// for validation errors; only the string form is shown to users verbatim.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(data) > 0 {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil && len(payload.Detail) > 0 {
			var detail string
			if json.Unmarshal(payload.Detail, &detail) == nil {
				apiErr.Detail = detail
			}
		}
	}

	if apiErr.Detail == "" {
		apiErr.Detail = fmt.Sprintf("request failed: %s", resp.Status)
	}
	return apiErr
}
