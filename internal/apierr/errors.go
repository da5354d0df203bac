// Package apierr provides shared error sentinels and retry infrastructure
// for the HTTP-based caption sources (Whisper, Dumpling, YouTube Data API).
// Provider-specific errors are classified into these sentinels at the
// adapter boundary.
//
// Providers map HTTP status codes to these errors using
// fmt.Errorf("%s: %w", msg, sentinel). Callers check with
// errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates a 5xx response (retryable).
	ErrServerError = errors.New("server error")
)

// FromStatus maps an HTTP status code to a sentinel, or nil for 2xx.
func FromStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrRateLimit
	case code == http.StatusUnauthorized:
		return ErrAuthFailed
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code >= 500:
		return ErrServerError
	default:
		return ErrBadRequest
	}
}

// Retryable reports whether an error is transient and worth retrying.
// Rate limits, timeouts, and server errors retry; auth failures, quota
// exhaustion, and context cancellation do not.
func Retryable(err error) bool {
	switch {
	case errors.Is(err, ErrRateLimit),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrServerError):
		return true
	case errors.Is(err, context.Canceled):
		return false
	default:
		return false
	}
}
