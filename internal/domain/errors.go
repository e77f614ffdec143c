package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error sources reported to the HTTP boundary
const (
	SourceValidation = "validation"
	SourceService    = "service"
)

var (
	// ErrValidation classifies malformed queries or options. Never reaches the network.
	ErrValidation = errors.New("invalid request parameters")

	// ErrInvalidQuery is returned when the search query is missing or blank
	ErrInvalidQuery = fmt.Errorf("%w: query parameter is required", ErrValidation)

	// ErrInvalidOptions is returned when page, limit, currency or platforms are malformed
	ErrInvalidOptions = fmt.Errorf("%w: invalid search options", ErrValidation)

	// ErrPlatformFetch classifies a failed call to a single marketplace
	ErrPlatformFetch = errors.New("platform fetch failed")

	// ErrPlatformTimeout is returned when a marketplace call exceeds its deadline
	ErrPlatformTimeout = fmt.Errorf("%w: timeout", ErrPlatformFetch)

	// ErrService classifies unexpected failures inside aggregation itself
	ErrService = errors.New("product service failure")

	// ErrAllPlatformsFailed is returned when no requested marketplace produced a result
	ErrAllPlatformsFailed = fmt.Errorf("%w: all platforms failed", ErrService)

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// ProductServiceError is a classified failure carrying the source tag and a
// status hint the transport layer maps to its own status codes.
type ProductServiceError struct {
	Source     string
	StatusCode int
	Message    string
	Details    interface{}
	kind       error
}

func (e *ProductServiceError) Error() string {
	return e.Message
}

// Unwrap exposes the classification sentinel for errors.Is
func (e *ProductServiceError) Unwrap() error {
	return e.kind
}

// NewValidationError builds a 400 validation failure
func NewValidationError(message string, details interface{}) *ProductServiceError {
	return &ProductServiceError{
		Source:     SourceValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Details:    details,
		kind:       ErrValidation,
	}
}

// NewPlatformFetchError builds a failure attributed to one marketplace
func NewPlatformFetchError(platform string, statusCode int, message string, details interface{}) *ProductServiceError {
	return &ProductServiceError{
		Source:     platform,
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
		kind:       ErrPlatformFetch,
	}
}

// NewPlatformTimeoutError builds a 504 failure for a marketplace call that ran out of time
func NewPlatformTimeoutError(platform string, cause error) *ProductServiceError {
	return &ProductServiceError{
		Source:     platform,
		StatusCode: http.StatusGatewayTimeout,
		Message:    fmt.Sprintf("%s API error: %v", PlatformTitle(platform), cause),
		kind:       ErrPlatformTimeout,
	}
}

// NewServiceError builds a failure of the aggregation pipeline itself
func NewServiceError(statusCode int, message string, details interface{}) *ProductServiceError {
	return &ProductServiceError{
		Source:     SourceService,
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
		kind:       ErrService,
	}
}

// WithKind narrows the classification sentinel, e.g. to ErrInvalidQuery
func (e *ProductServiceError) WithKind(kind error) *ProductServiceError {
	e.kind = kind
	return e
}

// PlatformTitle returns the display name used in error messages
func PlatformTitle(platform string) string {
	switch platform {
	case PlatformAmazon:
		return "Amazon"
	case PlatformFlipkart:
		return "Flipkart"
	default:
		return platform
	}
}
