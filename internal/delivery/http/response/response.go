// Package response defines the unified API response envelope.
package response

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the success response structure.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope is the failure response structure.
type ErrorEnvelope struct {
	StatusCode         int        `json:"statusCode"`
	Data               any        `json:"data"`
	Error              *ErrorInfo `json:"error"`
	Success            bool       `json:"success"`
	IsOperationalError bool       `json:"isOperationalError"`
	Errors             []string   `json:"errors"`
}

// ErrorInfo names the failure inside the error envelope.
type ErrorInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Success writes a success envelope.
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// Error writes a failure envelope. details carries field-level validation
// messages when present.
func Error(c echo.Context, statusCode int, name, message string, operational bool, details []string) error {
	if details == nil {
		details = []string{}
	}

	return c.JSON(statusCode, ErrorEnvelope{
		StatusCode:         statusCode,
		Data:               nil,
		Error:              &ErrorInfo{Name: name, Message: message},
		Success:            false,
		IsOperationalError: operational,
		Errors:             details,
	})
}
