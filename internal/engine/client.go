package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/MOYARU/quantops/internal/report"
	appver "github.com/MOYARU/quantops/internal/version"
)

const auditPath = "/api/audit/"

var ErrEmptyTicker = errors.New("ticker is empty")

// Client talks to the audit API. It never retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	budget     *RequestBudgetTransport
	metrics    *MetricsTransport
	userAgent  string
	sanitizer  *report.Sanitizer
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying client; its transport is still wrapped.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// WithRateLimit paces requests; 0 disables pacing.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithRequestBudget caps the total number of requests; 0 is unlimited.
func WithRequestBudget(max int64) ClientOption {
	return func(c *Client) {
		c.budget = &RequestBudgetTransport{Max: max}
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSanitizer sets the redaction applied to backend error messages.
func WithSanitizer(sn *report.Sanitizer) ClientOption {
	return func(c *Client) {
		c.sanitizer = sn
	}
}

// NewClient builds a client for baseURL (scheme and host, optional path prefix).
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base URL scheme: %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: missing host")
	}

	c := &Client{
		baseURL:    u,
		httpClient: NewHTTPClient(timeout),
		userAgent:  appver.ClientUserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var transport http.RoundTripper = &HostBoundaryTransport{
		Base:        c.httpClient.Transport,
		AllowedHost: u.Host,
	}
	if c.budget != nil {
		c.budget.Base = transport
		transport = c.budget
	}
	c.metrics = &MetricsTransport{Base: transport}
	c.httpClient.Transport = c.metrics
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// AuditURL is the endpoint for ticker. The ticker is sent as typed, path-escaped.
func (c *Client) AuditURL(ticker string) string {
	u := *c.baseURL
	prefix := strings.TrimRight(c.baseURL.EscapedPath(), "/")
	u.Path = strings.TrimRight(u.Path, "/") + auditPath + ticker
	u.RawPath = prefix + auditPath + url.PathEscape(ticker)
	return u.String()
}

// FetchAudit issues one GET for ticker and decodes the body. The HTTP status
// is not inspected: any well-formed JSON body is an Outcome, anything else an error.
func (c *Client) FetchAudit(ctx context.Context, ticker string) (report.Outcome, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint := c.AuditURL(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audit request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := DecodeResponseBody(resp)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("audit API response")

	return report.DecodeWith(body, c.sanitizer)
}

func (c *Client) Stats() Stats {
	return c.metrics.Snapshot()
}

// RemainingBudget is -1 when no budget is configured.
func (c *Client) RemainingBudget() int64 {
	if c.budget == nil {
		return -1
	}
	return c.budget.Remaining()
}
