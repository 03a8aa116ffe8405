package gofetch

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common error constants
var (
	// ErrNoAPIKey is returned when a client is constructed without an API key
	ErrNoAPIKey = errors.New("an API key must be provided")

	// ErrNotSupported is returned for Apify operations that have no GoFetch
	// equivalent. These fail loudly instead of silently doing nothing.
	ErrNotSupported = errors.New("operation not supported by the GoFetch API")
)

// APIError is returned when the GoFetch API responds with an error status.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	base := fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
	if e.ErrorCode != "" {
		base = fmt.Sprintf("[%d:%s] %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	if len(e.Details) > 0 {
		base = fmt.Sprintf("%s - details: %v", base, e.Details)
	}
	return base
}

// AuthenticationError is returned for 401 responses. It is fatal and never
// retried.
type AuthenticationError struct {
	Message string
	Details map[string]any
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// RateLimitError is returned for 429 responses once the transport's own
// retries are exhausted. RetryAfter is zero when the server suggested no
// delay.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	Details    map[string]any
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded: %s (retry after %s)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// IsNotFound reports whether err is an APIError with HTTP status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
