package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/yourusername/nfl-bets/internal/config"
	"github.com/yourusername/nfl-bets/internal/metrics"
)

var errServerStatus = errors.New("server error status")

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout          time.Duration
	MaxRetries       int
	RetryWaitMin     time.Duration
	RetryWaitMax     time.Duration
	RateLimit        float64 // requests per second
	Burst            int
	FailureThreshold uint32 // consecutive failures before the breaker opens
	BreakerTimeout   time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		RetryWaitMin:     100 * time.Millisecond,
		RetryWaitMax:     10 * time.Second,
		RateLimit:        2.0,
		Burst:            2,
		FailureThreshold: 5,
		BreakerTimeout:   60 * time.Second,
	}
}

// HTTPClientConfigFrom converts the YAML client settings
func HTTPClientConfigFrom(cfg config.HTTPClientConfig) HTTPClientConfig {
	out := DefaultHTTPClientConfig()
	out.Timeout = cfg.Timeout()
	out.MaxRetries = cfg.RetryAttempts
	out.RateLimit = cfg.RequestsPerSecond
	out.Burst = cfg.Burst
	out.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	out.BreakerTimeout = time.Duration(cfg.BreakerTimeoutSeconds) * time.Second
	return out
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and a circuit breaker
type RateLimitedHTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Entry
}

type debugLogger struct {
	entry *logrus.Entry
}

func (l debugLogger) Printf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(name string, cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	entry := logger.WithField("component", "http_client").WithField("client", name)

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = debugLogger{entry: entry}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			entry.WithFields(logrus.Fields{
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Circuit breaker state changed")
			if to == gobreaker.StateOpen {
				metrics.RecordCircuitBreakerTrip(name)
			}
		},
	})

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &RateLimitedHTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		breaker: breaker,
		logger:  entry,
	}
}

// Do executes an HTTP request with rate limiting, retries and the circuit breaker.
// Responses with 5xx status still count as breaker failures but are returned to the caller.
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	rreq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(rreq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, errServerStatus) {
		return result.(*http.Response), nil
	}
	if err != nil {
		return nil, err
	}
	return result.(*http.Response), nil
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// BreakerState reports the circuit breaker state
func (c *RateLimitedHTTPClient) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		default:
			return false, nil
		}
	}
}
