package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds connection settings for the payment gateway.
type Config struct {
	BaseURL string        `env:"PAYMENT_GATEWAY_URL,required"`
	APIKey  string        `env:"PAYMENT_GATEWAY_API_KEY,required"`
	Timeout time.Duration `env:"PAYMENT_GATEWAY_TIMEOUT" envDefault:"30s"`
}

// Client talks to the remote payment gateway over JSON/HTTP.
// It performs no retries itself; retry policy belongs to the intent
// orchestrator, which also owns per-attempt timeouts via context.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *slog.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) {
		if c != nil {
			g.client = c
		}
	}
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Client) {
		if l != nil {
			g.log = l
		}
	}
}

// New creates a gateway client. Fails fast on missing configuration so a
// misconfigured checkout feature is caught at startup, not mid-payment.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrMissingBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	g := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// CreateIntent mints a payment intent for a plan/cycle pair, optionally with a
// promotion code applied. The gateway validates the code again here regardless
// of any prior ValidateCoupon result.
func (g *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResponse, error) {
	var resp CreateIntentResponse
	if err := g.do(ctx, http.MethodPost, "/v1/payment-intents", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateCoupon checks a promotion code against the gateway. The answer is
// advisory; CreateIntent remains the authoritative check.
func (g *Client) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*ValidateCouponResponse, error) {
	var resp ValidateCouponResponse
	if err := g.do(ctx, http.MethodPost, "/v1/promotion-codes/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetIntentStatus fetches the settled state of a payment intent.
func (g *Client) GetIntentStatus(ctx context.Context, intentID string) (*IntentStatusResponse, error) {
	if intentID == "" {
		return nil, ErrIntentNotFound
	}
	var resp IntentStatusResponse
	if err := g.do(ctx, http.MethodGet, "/v1/payment-intents/"+url.PathEscape(intentID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do executes one request and classifies any failure per the error taxonomy.
func (g *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		// Transport failures and aborts are the only retryable class.
		g.log.DebugContext(ctx, "gateway request failed",
			slog.String("path", path),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return &Error{
			Class:   ClassNetwork,
			Message: "request failed",
			cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// 64KB cap prevents a misbehaving gateway from exhausting memory.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &Error{
			Class:   ClassNetwork,
			Message: "failed to read response body",
			cause:   err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return g.classify(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Join(ErrMalformedReply, err)
		}
	}
	return nil
}

// classify maps an error response onto the taxonomy. Any response the gateway
// actually returned is final: retrying a rejection cannot succeed, and short
// retries against a failing dependency offer no benefit either.
func (g *Client) classify(statusCode int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	ge := &Error{
		StatusCode: statusCode,
		Kind:       body.Kind,
		Message:    body.Message,
	}
	if ge.Message == "" {
		ge.Message = fmt.Sprintf("gateway returned status %d", statusCode)
	}

	switch {
	case body.Kind == KindRateLimited || statusCode == http.StatusTooManyRequests:
		ge.Class = ClassRateLimit
	case statusCode >= 500:
		ge.Class = ClassServer
	default:
		ge.Class = ClassValidation
	}
	return ge
}
