package extract

import (
	"errors"
	"fmt"
)

// Common errors returned by the extraction client.
var (
	// ErrAuthError indicates an authentication failure (missing or
	// invalid API key). This is the one condition the pipeline treats
	// as unrecoverable for a file.
	ErrAuthError = errors.New("extraction authentication error")

	// ErrRateLimited indicates the completion endpoint rejected the
	// request for rate limiting.
	ErrRateLimited = errors.New("extraction rate limit exceeded")

	// ErrNetworkError indicates a connectivity problem.
	ErrNetworkError = errors.New("network error communicating with extraction endpoint")

	// ErrInvalidResponse indicates the endpoint returned something that
	// is not a chat-completions response at all.
	ErrInvalidResponse = errors.New("invalid response from extraction endpoint")
)

// APIError represents a non-2xx response from the completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("extraction API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
