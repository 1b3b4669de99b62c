package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxRetries          int
	RetryWaitMin        time.Duration
	RetryWaitMax        time.Duration
	RateLimit           float64       // requests per second
	CircuitBreakerMax   int           // max consecutive failures before circuit break
	CircuitBreakerReset time.Duration // how long the breaker stays open
	UserAgent           string
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             10 * time.Second,
		MaxRetries:          2,
		RetryWaitMin:        100 * time.Millisecond,
		RetryWaitMax:        2 * time.Second,
		RateLimit:           10.0,
		CircuitBreakerMax:   5,
		CircuitBreakerReset: 30 * time.Second,
		UserAgent:           "Mozilla/5.0 (compatible; edge-calibrator)",
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and circuit breaker
type RateLimitedHTTPClient struct {
	client              *retryablehttp.Client
	limiter             *rate.Limiter
	circuitBreakerMax   int
	circuitBreakerReset time.Duration
	userAgent           string
	logger              *logrus.Entry

	mu                sync.Mutex
	consecutiveErrors int
	openUntil         time.Time
	lastError         error
	now               func() time.Time
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	entry := logger.WithField("component", "http_client")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Hand the final response back so callers can map its status code
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{entry}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	breakerMax := cfg.CircuitBreakerMax
	if breakerMax <= 0 {
		breakerMax = 1
	}

	return &RateLimitedHTTPClient{
		client:              retryClient,
		limiter:             rate.NewLimiter(limit, 1),
		circuitBreakerMax:   breakerMax,
		circuitBreakerReset: cfg.CircuitBreakerReset,
		userAgent:           cfg.UserAgent,
		logger:              entry,
		now:                 time.Now,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaker
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.checkBreaker(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(retryReq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("upstream status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}

	return resp, nil
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// BreakerOpen reports whether requests are currently being short-circuited
func (c *RateLimitedHTTPClient) BreakerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.openUntil)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *RateLimitedHTTPClient) checkBreaker() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now().Before(c.openUntil) {
		return fmt.Errorf("circuit breaker open: %v", c.lastError)
	}
	return nil
}

func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors >= c.circuitBreakerMax {
		c.openUntil = c.now().Add(c.circuitBreakerReset)
		c.logger.WithFields(logrus.Fields{
			"consecutive_errors": c.consecutiveErrors,
			"reset_after":        c.circuitBreakerReset.String(),
		}).WithError(err).Warn("Circuit breaker opened")
	}
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.openUntil = time.Time{}
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, err
		}

		// Retry on rate limit (429), server errors (500, 502, 503, 504), and gateway errors
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}

		return false, nil
	}
}

// retryLogger adapts logrus to retryablehttp's leveled logger, demoting its chatter to debug
type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.with(kv).Warn(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.with(kv).Debug(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.with(kv).Debug(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.with(kv).Warn(msg) }

func (l retryLogger) with(kv []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	return l.entry.WithFields(fields)
}
