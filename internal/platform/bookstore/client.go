// Package bookstore is the HTTP client for the remote bookstore API. Each
// exported method issues one request, decodes the JSON response and reports
// non-success statuses as *APIError.
package bookstore

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

	"bookadmin/internal/entity"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "http://localhost:3000"
	DefaultAuthHeader = "x-auth-token"
	maxErrorBody      = 4 << 10
)

// Observer receives one call per HTTP attempt. route is the endpoint
// template (e.g. "/libros/:id"), status is 0 on transport failure.
type Observer func(method, route string, status int, err error, elapsed time.Duration)

type Config struct {
	BaseURL    string
	AuthHeader string
	Timeout    time.Duration
	RPS        float64
	MaxRetries int
}

type Option func(*Client)

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observe = o }
}

// WithRetryBackoff sets the first retry delay; later retries double it.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	observe    Observer

	Authors    Resource[entity.Author, entity.AuthorInput]
	Books      Resource[entity.Book, entity.BookInput]
	Publishers Resource[entity.Publisher, entity.PublisherInput]
	Sales      Resource[entity.Sale, entity.SaleInput]
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = DefaultAuthHeader
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: cfg.AuthHeader,
		userAgent:  "bookadmin/1.0",
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    500 * time.Millisecond,
		observe:    func(string, string, int, error, time.Duration) {},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Authors = Resource[entity.Author, entity.AuthorInput]{client: c, path: "/autores"}
	c.Books = Resource[entity.Book, entity.BookInput]{client: c, path: "/libros"}
	c.Publishers = Resource[entity.Publisher, entity.PublisherInput]{client: c, path: "/editoriales"}
	c.Sales = Resource[entity.Sale, entity.SaleInput]{client: c, path: "/ventas"}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Ping reports whether the API host answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return resp.Body.Close()
}

type call struct {
	method string
	path   string
	route  string
	token  string
	body   any
	out    any
}

// do runs one API call. Only GETs are retried, on transport errors and on
// 429/5xx responses, with exponential backoff.
func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", cl.method, cl.route, err)
		}
		payload = b
	}

	attempts := 1
	if cl.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * c.backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		start := time.Now()
		status, err := c.attempt(ctx, cl, payload)
		c.observe(cl.method, cl.route, status, err, time.Since(start))
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			return err
		}
	}
	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, cl call, payload []byte) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set(c.authHeader, cl.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &APIError{
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", cl.method, cl.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, cl.method, cl.path, err)
	}
	return resp.StatusCode, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, ErrMalformedResponse)
}
