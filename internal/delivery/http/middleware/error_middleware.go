package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"hyperstream/config"
	deliverycontext "hyperstream/internal/delivery/context"
	"hyperstream/internal/delivery/http/response"
	"hyperstream/internal/delivery/http/validator"
	domainerrors "hyperstream/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware translates errors escaping the handlers into the response
// envelope. Typed operational errors pass through with their status and
// message; everything else is logged and collapsed to a generic 500.
type ErrorMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewErrorMiddleware creates the error handling middleware.
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		m.write(c, appErr.StatusCode(), appErr.Name(), appErr.Message(), appErr.IsOperational(), nil)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		var details []string
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			details = validationErr.Details
		}

		m.write(c, httpErr.Code, http.StatusText(httpErr.Code), fmt.Sprintf("%v", httpErr.Message), true, details)

		return
	}

	m.logger.Error("Unhandled error",
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", err),
	)

	message := "Internal server error"
	if m.debug {
		message = err.Error()
	}

	m.write(c, http.StatusInternalServerError, domainerrors.NameInternal, message, false, nil)
}

func (m *ErrorMiddleware) write(c echo.Context, statusCode int, name, message string, operational bool, details []string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(statusCode)
	} else {
		err = response.Error(c, statusCode, name, message, operational, details)
	}
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
