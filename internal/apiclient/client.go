// Package apiclient is the typed REST client for the marketplace admin API.
//
// Two transports share one base URL: a public one that never sends
// credentials, and an authenticated one that reads the bearer token from a
// session.Store on every request. Every call is a single attempt and every
// failure is returned as an *Error.
package apiclient

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/model"
	"github.com/edvin/mitra-admin/internal/session"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Store
	logger     zerolog.Logger
	metrics    *Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewPublicClient returns a client that never sends an Authorization header.
func NewPublicClient(baseURL string, opts ...Option) *Client {
	return newClient(baseURL, nil, opts)
}

// NewAuthenticatedClient returns a client that attaches the store's token as
// a bearer header on every request. With no token the request goes out
// unauthenticated and the server decides.
func NewAuthenticatedClient(baseURL string, store session.Store, opts ...Option) *Client {
	return newClient(baseURL, store, opts)
}

func newClient(baseURL string, store session.Store, opts []Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		session:    store,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "apiclient").Logger()
	return c
}

// do performs one request and decodes a 2xx body into result (when non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, result any) error {
	if err := c.roundTrip(ctx, op, method, path, query, body, result); err != nil {
		apiErr := Normalize(op, err)
		c.logger.Warn().
			Str("op", apiErr.Op).
			Str("method", method).
			Str("path", path).
			Str("kind", apiErr.Kind.String()).
			Int("status", apiErr.StatusCode).
			Msg(apiErr.Message)
		return apiErr
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, body, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, path, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return connectivityError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.observe(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return connectivityError(op, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FromResponse(op, resp.StatusCode, respBody)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &Error{
			Op:         op,
			Kind:       KindMalformed,
			StatusCode: resp.StatusCode,
			Message:    fallbackMessage(op),
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// getOne fetches a {message, data} envelope holding one record. A 2xx with no
// data is reported as not found.
func getOne[T any](ctx context.Context, c *Client, op, path string) (*T, error) {
	var env model.Envelope[*T]
	if err := c.do(ctx, op, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, notFound(op, env.Message)
	}
	return env.Data, nil
}

// getList fetches a {message, data} envelope holding an unpaginated list.
func getList[T any](ctx context.Context, c *Client, op, path string, query url.Values) ([]T, error) {
	var env model.Envelope[[]T]
	if err := c.do(ctx, op, http.MethodGet, path, query, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, nil
}

// getPage fetches a paginated list and clamps its cursor.
func getPage[T any](ctx context.Context, c *Client, op, path string, query url.Values) (*model.Page[T], error) {
	var page model.Page[T]
	if err := c.do(ctx, op, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	page.Normalize()
	return &page, nil
}

// send posts or puts body and returns the record from the response envelope.
func send[T any](ctx context.Context, c *Client, op, method, path string, body any) (*T, error) {
	var env model.Envelope[*T]
	if err := c.do(ctx, op, method, path, nil, body, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &Error{Op: op, Kind: KindMalformed, Message: fallbackMessage(op)}
	}
	return env.Data, nil
}

// sendMessage performs a request whose response carries only {message}.
func sendMessage(ctx context.Context, c *Client, op, method, path string, body any) (string, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, op, method, path, nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func notFound(op, message string) *Error {
	if message == "" {
		message = fallbackMessage(op)
	}
	return &Error{Op: op, Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: message}
}
