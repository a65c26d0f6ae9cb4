package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrQuotaExhausted is returned when the upstream quota gate blocks a request.
	ErrQuotaExhausted = errors.New("upstream quota exhausted")
)

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 rate limit errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassData represents malformed or incomplete response payloads.
	ErrorClassData ErrorClass = "data"
)

// NetworkError indicates the upstream API was unreachable or timed out.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DataError indicates the upstream response was malformed or missing
// expected fields. Data errors are never retried: the same payload would
// come back again.
type DataError struct {
	Provider string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s data error: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s data error: %s", e.Provider, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DataError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx upstream response.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// classifyStatus categorizes an HTTP status code.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Classify categorizes an error for retry decisions and observability.
func Classify(err error) ErrorClass {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return ErrorClassNetwork
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}

	var dataErr *DataError
	if errors.As(err, &dataErr) {
		return ErrorClassData
	}

	return ErrorClassNetwork
}

// shouldRetry determines if an error class should be retried.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx errors should NOT be retried (wastes quota)
		return false
	case ErrorClassServer:
		return true
	case ErrorClassRateLimit:
		return true
	case ErrorClassNetwork:
		return true
	case ErrorClassData:
		// The payload won't parse differently the second time
		return false
	default:
		return false
	}
}
