package licenseapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrNetworkError is returned when the API cannot be reached
	ErrNetworkError = errors.New("network error")

	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for 400 responses
	ErrValidation = errors.New("validation failed")

	// ErrServer is returned for 5xx responses
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx response decoded from the server error body.
type APIError struct {
	StatusCode int
	Code       string              `json:"error"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("license api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("license api: %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match status classes with errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode == 400:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return nil
	}
}
