package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultRetryMaxDelay = 5 * time.Second
)

// RetryPolicy controls the optional retry of GET requests. The zero value
// disables retries, so every Dispatch makes exactly one HTTP call.
type RetryPolicy struct {
	// Attempts is the total number of tries. Values below 2 disable retry.
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns a RetryPolicy populated from environment variables.
//
// Environment variables:
//   - TB_RETRY_ATTEMPTS: total tries for GET requests (default: 0, disabled)
//   - TB_RETRY_DELAY: initial backoff delay (default: "500ms")
//   - TB_RETRY_MAX_DELAY: backoff cap (default: "5s")
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: uint(max(getEnvInt("TB_RETRY_ATTEMPTS", 0), 0)),
		Delay:    getEnvDuration("TB_RETRY_DELAY", DefaultRetryDelay),
		MaxDelay: getEnvDuration("TB_RETRY_MAX_DELAY", DefaultRetryMaxDelay),
	}
}

func (p RetryPolicy) appliesTo(method string) bool {
	return p.Attempts > 1 && method == http.MethodGet
}

func (c *Client) retryRoundTrip(ctx context.Context, p *preparedRequest) (*Result, error) {
	return retry.DoWithData(
		func() (*Result, error) {
			return c.roundTrip(ctx, p)
		},
		retry.Context(ctx),
		retry.Attempts(c.Retry.Attempts),
		retry.Delay(c.Retry.Delay),
		retry.MaxDelay(c.Retry.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			slog.Info("request failed, retrying", "url", p.url, "attempt", n+1, "error", err)
		}),
	)
}

// isRetryable accepts transport failures and throttling or gateway
// statuses. Context cancellation is final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return true
}

// getEnvInt reads an integer from an environment variable with a default fallback.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration from an environment variable with a default fallback.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
