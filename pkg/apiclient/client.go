package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 16 << 20
)

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token() string
}

// Recorder receives per-request timing; MetricsService satisfies it.
type Recorder interface {
	ObserveAPIRequest(method, route string, status int, duration time.Duration)
}

// Config is the process-wide API configuration. It is copied into the client
// at construction and never mutated afterwards.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	DefaultHeaders map[string]string
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder wires request metrics.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithTokenSource attaches a bearer token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// Client is a thin JSON HTTP client bound to one base URL.
type Client struct {
	baseURL  *url.URL
	headers  http.Header
	http     *http.Client
	logger   *zap.Logger
	recorder Recorder
	tokens   TokenSource
}

// New validates the configuration and builds a client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base URL %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	headers := make(http.Header, len(cfg.DefaultHeaders)+2)
	headers.Set("Accept", "application/json")
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	for k, v := range cfg.DefaultHeaders {
		headers.Set(k, v)
	}

	c := &Client{
		baseURL: base,
		headers: headers,
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// RequestOption shapes a single call.
type RequestOption func(*request)

type request struct {
	query       url.Values
	headers     http.Header
	body        io.Reader
	contentType string
	fallback    string
	err         error
}

// WithQuery adds query parameters; url.Values.Encode keeps keys sorted.
func WithQuery(values url.Values) RequestOption {
	return func(r *request) {
		for k, vs := range values {
			for _, v := range vs {
				r.query.Add(k, v)
			}
		}
	}
}

// WithHeader sets a per-call header.
func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.headers.Set(key, value) }
}

// WithBearer sets the Authorization header for this call only.
func WithBearer(token string) RequestOption {
	return func(r *request) {
		if token != "" {
			r.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithJSON encodes body as the JSON request payload.
func WithJSON(body interface{}) RequestOption {
	return func(r *request) {
		payload, err := json.Marshal(body)
		if err != nil {
			r.err = fmt.Errorf("encode request body: %w", err)
			return
		}
		r.body = bytes.NewReader(payload)
		r.contentType = "application/json"
	}
}

// WithMultipart sends the form as multipart/form-data.
func WithMultipart(form *Multipart) RequestOption {
	return func(r *request) {
		body, contentType, err := form.Encode()
		if err != nil {
			r.err = err
			return
		}
		r.body = body
		r.contentType = contentType
	}
}

// WithErrorFallback replaces the generic message used for unreadable error bodies.
func WithErrorFallback(message string) RequestOption {
	return func(r *request) { r.fallback = message }
}

// DoJSON performs a request and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses become *HTTPError, transport failures *NetworkError.
func (c *Client) DoJSON(ctx context.Context, method, path string, out interface{}, opts ...RequestOption) error {
	status, body, err := c.send(ctx, method, path, opts)
	if err != nil {
		return err
	}
	if out == nil || status == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, opts []RequestOption) (int, []byte, error) {
	r := &request{query: url.Values{}, headers: http.Header{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return 0, nil, r.err
	}

	target := c.resolve(path, r.query)
	req, err := http.NewRequestWithContext(ctx, method, target, r.body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.headers {
		req.Header[k] = vs
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if req.Header.Get("Authorization") == "" && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	reqID := req.Header.Get(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
		req.Header.Set(requestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(method, path, 0, duration)
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return 0, nil, &NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe(method, path, resp.StatusCode, duration)
		return 0, nil, &NetworkError{Method: method, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	c.observe(method, path, resp.StatusCode, duration)
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
		zap.String("request_id", reqID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, newHTTPError(resp.StatusCode, body, r.fallback)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveAPIRequest(method, RouteLabel(path), status, duration)
}

var idSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

// RouteLabel collapses numeric path segments so metrics labels stay bounded.
func RouteLabel(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for idSegment.MatchString(path) {
		path = idSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}
