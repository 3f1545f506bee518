package postgrest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
	"github.com/riskibarqy/equipe-service/internal/platform/resilience"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxResponseBytes  = 6 << 20

	preferReturnRepresentation = "return=representation"
	preferReturnMinimal        = "return=minimal"
)

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	HTTPClient     *fasthttp.Client
}

// Client talks to a PostgREST (Supabase REST) endpoint.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	validate   *validator.Validate
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL, err := validateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid POSTGREST_URL")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, crerr.New("POSTGREST_API_KEY is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     "equipe-service",
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxResponseBodySize:      maxResponseBytes,
			NoDefaultUserAgentHeader: true,
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: retryDelay,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		validate:   validator.New(),
	}, nil
}

type request struct {
	method string
	table  string
	query  *Query
	body   any
	prefer string
}

// do sends req and decodes a 2xx JSON body into target when target is not nil.
// Only GET requests are retried.
func (c *Client) do(ctx context.Context, req request, target any) error {
	var body []byte
	if req.body != nil {
		raw, err := sonic.Marshal(req.body)
		if err != nil {
			return crerr.Wrapf(err, "marshal %s body", req.table)
		}
		body = raw
	}

	fullURL := c.baseURL + "/" + req.table
	if encoded := req.query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("postgrest.method", req.method),
			attribute.String("postgrest.table", req.table),
		)
	}

	var raw []byte
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		raw, execErr = c.executeRequest(ctx, req, fullURL, body)
		return execErr
	}, isCircuitFailure)
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "postgrest circuit breaker rejected request", "table", req.table, "state", c.breaker.State().String())
		}
		return err
	}

	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s response", req.table)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, r request, fullURL string, body []byte) ([]byte, error) {
	retries := 0
	if r.method == fasthttp.MethodGet {
		retries = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.send(ctx, r, fullURL, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isCircuitFailure(err) || attempt == retries {
			break
		}

		backoff := c.retryDelay * time.Duration(attempt+1)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "postgrest request failed", "method", r.method, "table", r.table, "error", lastErr)
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, r request, fullURL string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(r.method)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", errTransient, r.method, r.table, err)
	}

	status := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return raw, nil
	}

	apiErr := parseAPIError(status, raw)
	if isRetryableStatus(status) {
		return nil, fmt.Errorf("%w: %s %s status=%d: %w", errTransient, r.method, r.table, status, apiErr)
	}
	return nil, fmt.Errorf("%s %s status=%d: %w", r.method, r.table, status, apiErr)
}

// validateRows checks decoded rows before they reach the domain.
func validateRows[T any](c *Client, rows []T) error {
	for i := range rows {
		if err := c.validate.Struct(rows[i]); err != nil {
			return crerr.Wrapf(err, "invalid row %d", i)
		}
	}
	return nil
}

func validateBaseURL(raw string) (string, error) {
	candidate := strings.TrimRight(strings.TrimSpace(raw), "/")
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}
