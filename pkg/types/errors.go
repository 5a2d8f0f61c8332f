package types

import "fmt"

// APIError means the upstream returned a non-2xx status.
type APIError struct {
	Message    string
	StatusCode int
	RequestID  RequestID
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %s (request_id: %s)", e.Message, e.RequestID)
}

// NewAPIError creates an APIError with a fresh request id.
func NewAPIError(message string, statusCode int) *APIError {
	return &APIError{Message: message, StatusCode: statusCode, RequestID: NewRequestID()}
}

// NetworkError means the request failed at the transport level, including
// failures reading the response bytes.
type NetworkError struct {
	Message   string
	RequestID RequestID
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error: %s (request_id: %s)", e.Message, e.RequestID)
}

// NewNetworkError creates a NetworkError with a fresh request id.
func NewNetworkError(message string) *NetworkError {
	return &NetworkError{Message: message, RequestID: NewRequestID()}
}

// DeserializationError means the response body did not match the expected
// shape.
type DeserializationError struct {
	Message   string
	RequestID RequestID
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("Deserialization error: %s (request_id: %s)", e.Message, e.RequestID)
}

// NewDeserializationError creates a DeserializationError with a fresh
// request id.
func NewDeserializationError(message string) *DeserializationError {
	return &DeserializationError{Message: message, RequestID: NewRequestID()}
}

// ConfigError means the client configuration is invalid. It is fatal at
// construction time and never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration error: %s", e.Message)
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{Message: message}
}
