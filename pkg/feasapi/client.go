// Package feasapi is a client for the feasibility analysis API.
package feasapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/feasibility-cli/internal/model"
	"github.com/sells-group/feasibility-cli/internal/monitoring"
	"github.com/sells-group/feasibility-cli/internal/resilience"
)

// DefaultBaseURL is where the API listens in local development.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds each request.
const DefaultTimeout = 20 * time.Second

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 512

// API is the surface of the analysis service used by the commands.
type API interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, error)
	Predict(ctx context.Context, req model.PredictRequest) (*model.PredictResponse, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root, e.g. "http://localhost:8000".
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit paces requests to rps per second. Zero or less disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client calls the analysis API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewClient creates a Client. By default it makes a single attempt per call
// with a 20 second deadline.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		retry:      resilience.SingleAttempt(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Analyze posts req to /analyze.
func (c *Client) Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	return call[model.AnalyzeResponse](ctx, c, "analyze", "/analyze", req)
}

// Predict posts req to /predict.
func (c *Client) Predict(ctx context.Context, req model.PredictRequest) (*model.PredictResponse, error) {
	return call[model.PredictResponse](ctx, c, "predict", "/predict", req)
}

func call[T any](ctx context.Context, c *Client, op, path string, body any) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrapf(err, "feasapi: %s: marshal request", op)
	}

	retry := c.retry
	retry.ShouldRetry = func(err error) bool { return KindOf(err).Transient() }
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("feasapi." + op)
	}

	out, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*T, error) {
		v, err := do[T](ctx, c, path, payload)
		if err != nil {
			return nil, newTransportError(op, err)
		}
		return v, nil
	})
	if err != nil {
		monitoring.ClientRequests.WithLabelValues(op, string(KindOf(err))).Inc()
		return nil, err
	}
	monitoring.ClientRequests.WithLabelValues(op, "ok").Inc()
	return out, nil
}

func do[T any](ctx context.Context, c *Client, path string, payload []byte) (*T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &resilience.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &resilience.DecodeError{Err: err}
	}
	return &out, nil
}
