package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// HTTPDoer abstracts *http.Client for tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTClient implements API over JSON/HTTP.
//
// Idempotent GET requests are retried on network failures and on 502/503/504;
// other methods are attempted once. A 401 from any call triggers the handler
// registered with OnUnauthorized before the error is returned.
type RESTClient struct {
	baseURL      string
	http         HTTPDoer
	limiter      *rate.Limiter
	retries      uint64
	retryBackoff time.Duration
	timeout      time.Duration
	logger       logging.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

type Option func(*RESTClient)

func WithHTTPClient(hc HTTPDoer) Option {
	return func(c *RESTClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *RESTClient) { c.timeout = d }
}

// WithRetries sets how many extra attempts a failing GET gets and the
// initial exponential backoff between them.
func WithRetries(n uint64, backoff time.Duration) Option {
	return func(c *RESTClient) {
		c.retries = n
		c.retryBackoff = backoff
	}
}

// WithRateLimit caps outgoing requests at rps with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *RESTClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) { c.logger = l }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *RESTClient) { c.tokens = ts }
}

func NewRESTClient(baseURL string, opts ...Option) *RESTClient {
	c := &RESTClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		http:         &http.Client{},
		retryBackoff: 200 * time.Millisecond,
		timeout:      10 * time.Second,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "rest")
	return c
}

// SetTokenSource replaces the bearer token provider.
func (c *RESTClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized registers fn to be called whenever a response is 401.
func (c *RESTClient) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *RESTClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *RESTClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *RESTClient) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *RESTClient) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Ping checks that the backend answers GET /health. A 401 here is reported
// as an error but does not reach the unauthorized handler.
func (c *RESTClient) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/health", nil, nil, false)
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = b
	}

	if method != http.MethodGet || c.retries == 0 {
		return c.roundTrip(ctx, method, path, payload, out)
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBackoff))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.roundTrip(ctx, method, path, payload, out)
		if isTransient(ctx, err) {
			c.logger.Warn(ctx, "request failed, retrying", "method", method, "path", path, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *RESTClient) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	return c.send(ctx, method, path, payload, out, true)
}

func (c *RESTClient) send(ctx context.Context, method, path string, payload []byte, out any, notifyUnauthorized bool) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &APIError{Method: method, Path: path, Err: err}
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request finished",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp, method, path)
		if resp.StatusCode == http.StatusUnauthorized && notifyUnauthorized {
			c.unauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *RESTClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *RESTClient) unauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

// errorBody is the structured error the backend sends with non-2xx replies.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Field   string `json:"field"`
}

func decodeError(resp *http.Response, method, path string) *APIError {
	apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
		apiErr.Field = eb.Field
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func isTransient(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case 0:
		return !errors.Is(apiErr.Err, context.Canceled)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
