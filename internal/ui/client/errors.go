package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ClientError represents an error encountered when communicating with the admin API.
// StatusCode 0 = network/connection or internal error, >0 = HTTP response received.
//
// Error() returns the server's response text unchanged when there is one, otherwise
// "Request failed (<status>)". UserError() gives a message suitable for showing to an operator.
type ClientError struct {
	StatusCode  int    `json:"status_code"`
	Message     string `json:"message"`
	UserMessage string `json:"user_message"`
	LogMessage  string `json:"log_message"`
	cause       error
}

func (e *ClientError) Error() string {
	return e.Message
}

// UserError returns the user-friendly message
func (e *ClientError) UserError() string {
	return e.UserMessage
}

func (e *ClientError) Unwrap() error {
	return e.cause
}

func (e *ClientError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("status_code", e.StatusCode),
		slog.String("detail", e.LogMessage),
	)
}

// NewClientConnectionError creates a ClientError for network/connection issues.
// The transport error's own message is kept so it surfaces unchanged.
func NewClientConnectionError(err error) *ClientError {
	return &ClientError{
		StatusCode:  0,
		Message:     err.Error(),
		UserMessage: "Unable to reach the admin API. Check API_BASE_URL and your connection and try again.",
		LogMessage:  fmt.Sprintf("network error: %v", err),
		cause:       err,
	}
}

// NewClientInternalError creates a ClientError for internal errors, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		StatusCode:  0,
		Message:     fmt.Sprintf("%v while %v", err, while),
		UserMessage: "An error occurred. Please try again later.",
		LogMessage:  fmt.Sprintf("internal error: %v while %v", err, while),
		cause:       err,
	}
}

// NewClientApiError creates a ClientError from a non-success response sent by the admin API.
// body is the raw response text.
func NewClientApiError(statusCode int, body []byte) *ClientError {
	message := string(body)
	if message == "" {
		message = fmt.Sprintf("Request failed (%d)", statusCode)
	}

	// JSON error bodies carry a readable message; plain text bodies are used as they are
	var serverErr struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
		Error     string `json:"error"`
	}
	serverMsg := ""
	if json.Unmarshal(body, &serverErr) == nil {
		serverMsg = serverErr.Message
		if serverMsg == "" {
			serverMsg = serverErr.Error
		}
	}

	var userMsg string
	switch statusCode {
	case http.StatusUnauthorized:
		userMsg = "Not authorized. Set the admin API token with `leadadmin token set` and try again."
	case http.StatusForbidden:
		userMsg = "The admin token does not have permission to do this."
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		if serverMsg != "" {
			userMsg = serverMsg
		} else if statusCode == http.StatusNotFound {
			userMsg = "Not found."
		} else {
			userMsg = "Invalid request. Please check your input and try again."
		}
	case http.StatusTooManyRequests:
		userMsg = "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		userMsg = "The admin API is temporarily unavailable. Please try again later."
	default:
		userMsg = "An error occurred. Please try again."
	}

	logMsg := fmt.Sprintf("admin api status %d", statusCode)
	if serverMsg != "" {
		logMsg += fmt.Sprintf(" - %s", serverMsg)
	} else if len(body) > 0 {
		logMsg += fmt.Sprintf(" - %.200s", body)
	}

	return &ClientError{
		StatusCode:  statusCode,
		Message:     message,
		UserMessage: userMsg,
		LogMessage:  logMsg,
	}
}
