package core

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of an API error.
type ErrorType int

// Error type constants categorize errors for handling and retry decisions.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates a request weight or order limit was exceeded.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid credentials, signature or timestamp.
	ErrorTypeAuthentication
	// ErrorTypeBadRequest indicates invalid request parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound indicates the order or resource does not exist.
	ErrorTypeNotFound
	// ErrorTypeServerError indicates a server-side error.
	ErrorTypeServerError
	// ErrorTypeInsufficientFunds indicates the account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"BAD_REQUEST",
		"NOT_FOUND",
		"SERVER_ERROR",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
	}[t]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNotConnected is returned when the websocket is not connected.
	ErrNotConnected = errors.New("websocket not connected")
	// ErrCircuitBreakerOpen is returned when the circuit breaker rejects a request.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned when an authenticated endpoint is called
	// without an API key pair.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrInvalidParameter is returned when a request is rejected locally.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// APIError is a failed REST call. Code and Message come from the exchange's
// {"code":-1121,"msg":"Invalid symbol."} body when present.
type APIError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code, zero for transport failures.
	StatusCode int `json:"status_code"`
	// Code is the exchange error code, zero when the body carried none.
	Code int `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"msg"`
	// Endpoint is the REST path that failed.
	Endpoint string `json:"endpoint"`
	// Raw holds the undecoded response body.
	Raw string `json:"raw,omitempty"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("binance %s %s (%d/%d): %s",
			e.Type, e.Endpoint, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("binance %s %s (%d): %s",
		e.Type, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap returns the transport error behind network and timeout failures.
func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError creates an APIError classified from the exchange code and HTTP status.
func NewAPIError(statusCode, code int, message, endpoint string) *APIError {
	return &APIError{
		Type:       ClassifyCode(code, statusCode),
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Endpoint:   endpoint,
		Timestamp:  time.Now(),
	}
}

// NewTransportError wraps a failure that happened before a response arrived.
func NewTransportError(errorType ErrorType, endpoint string, cause error) *APIError {
	return &APIError{
		Type:      errorType,
		Message:   cause.Error(),
		Endpoint:  endpoint,
		Timestamp: time.Now(),
		cause:     cause,
	}
}

// ClassifyCode maps an exchange error code, falling back to the HTTP status
// when the code is unknown or absent.
func ClassifyCode(code, statusCode int) ErrorType {
	switch code {
	case CodeTooManyRequests, CodeTooManyOrders:
		return ErrorTypeRateLimit
	case CodeUnauthorized, CodeInvalidTimestamp, CodeInvalidSignature,
		CodeBadAPIKeyFormat, CodeRejectedAPIKey:
		return ErrorTypeAuthentication
	case CodeTimeout:
		return ErrorTypeTimeout
	case CodeDisconnected, CodeUnknown:
		return ErrorTypeServerError
	case CodeNewOrderRejected, CodeMarginInsufficient, CodeBalanceInsufficient:
		return ErrorTypeInsufficientFunds
	case CodeCancelRejected, CodeNoSuchOrder:
		return ErrorTypeNotFound
	}

	switch {
	case code <= -1100 && code > -1200:
		return ErrorTypeBadRequest
	case code <= -2000 && code > -3000:
		return ErrorTypeInvalidOrder
	case code <= -4000 && code > -5000:
		return ErrorTypeInvalidOrder
	case code <= -1000 && code > -1100:
		return ErrorTypeBadRequest
	}

	return classifyStatus(statusCode)
}

func classifyStatus(statusCode int) ErrorType {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return ErrorTypeServerError
	case statusCode == http.StatusTooManyRequests || statusCode == http.StatusTeapot:
		return ErrorTypeRateLimit
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorTypeAuthentication
	case statusCode == http.StatusNotFound:
		return ErrorTypeNotFound
	case statusCode >= http.StatusBadRequest:
		return ErrorTypeBadRequest
	default:
		return ErrorTypeUnknown
	}
}

func errorTypeOf(err error) (ErrorType, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return ErrorTypeUnknown, false
}

// IsNetworkError returns true if the error is a network connectivity issue.
// Network errors are typically retryable.
func IsNetworkError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeNetwork
}

// IsTimeoutError returns true if the error is a timeout.
func IsTimeoutError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeTimeout
}

// IsRateLimitError returns true if the error is a rate limit violation.
// Rate limit errors should be retried after a delay.
func IsRateLimitError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeRateLimit
}

// IsAuthenticationError returns true for credential, signature and
// timestamp failures. These are not retryable without changes.
func IsAuthenticationError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeAuthentication
}

// IsNotFoundError returns true when the order or resource does not exist.
func IsNotFoundError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeNotFound
}

// IsTerminalError returns true if retrying the same request cannot succeed.
func IsTerminalError(err error) bool {
	t, ok := errorTypeOf(err)
	if !ok {
		return false
	}
	return t == ErrorTypeInsufficientFunds ||
		t == ErrorTypeInvalidOrder ||
		t == ErrorTypeNotFound ||
		t == ErrorTypeBadRequest
}

// IsServerError returns true for 5xx responses and exchange-side failures.
func IsServerError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeServerError
}
