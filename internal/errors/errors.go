// Package errors provides custom error types for the VistulaBot client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrClientClosed       = errors.New("client is closed")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Reason classifies why the backend could not produce an answer
type Reason string

const (
	ReasonNetwork Reason = "network"
	ReasonStatus  Reason = "status"
	ReasonParse   Reason = "parse"
)

// BackendUnavailableError is the single failure kind of a backend call:
// the request never completed, came back non-2xx, or carried no usable answer.
type BackendUnavailableError struct {
	Reason     Reason
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendUnavailableError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend unavailable (%s) [%d] at %s: %s", e.Reason, e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("backend unavailable (%s) at %s: %s", e.Reason, e.Endpoint, msg)
}

// Unwrap returns the underlying cause
func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *BackendUnavailableError) Is(target error) bool {
	if target == ErrBackendUnavailable {
		return true
	}
	_, ok := target.(*BackendUnavailableError)
	return ok
}

// NewNetworkError wraps a transport failure
func NewNetworkError(endpoint string, err error) *BackendUnavailableError {
	return &BackendUnavailableError{Reason: ReasonNetwork, Endpoint: endpoint, Err: err}
}

// NewStatusError reports a non-2xx response
func NewStatusError(endpoint string, statusCode int, body string) *BackendUnavailableError {
	return &BackendUnavailableError{
		Reason:     ReasonStatus,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("unexpected status: %s", truncate(body, 200)),
	}
}

// NewParseError reports a 2xx response whose body could not be used
func NewParseError(endpoint string, statusCode int, message string) *BackendUnavailableError {
	return &BackendUnavailableError{
		Reason:     ReasonParse,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError reports an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying cause
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: err}
}

// IsBackendUnavailable reports whether err is (or wraps) a backend failure
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsConfigError reports whether err is (or wraps) a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// GetReason extracts the failure reason, or "" when err is not a backend failure
func GetReason(err error) Reason {
	var be *BackendUnavailableError
	if errors.As(err, &be) {
		return be.Reason
	}
	return ""
}

// GetHTTPStatus extracts the HTTP status code, or 0 when none was received
func GetHTTPStatus(err error) int {
	var be *BackendUnavailableError
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint of a failed call
func GetEndpoint(err error) string {
	var be *BackendUnavailableError
	if errors.As(err, &be) {
		return be.Endpoint
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
