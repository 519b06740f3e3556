// Package context carries request-scoped values (request id, logger,
// authenticated identity) across the delivery and usecase layers.
package context

import (
	"context"
	"log/slog"

	"hyperstream/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing the request ID.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing the request-scoped logger.
	KeyLogger ContextKey = "logger"

	// KeyIdentity is the echo context key the auth middleware stores the
	// authenticated identity under.
	KeyIdentity = "auth_identity"

	// HeaderXRequestID is the HTTP header name for the request ID.
	HeaderXRequestID = "X-Request-Id"
)

// GetRequestID extracts the request ID from echo.Context, generating a fresh
// one when absent.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// WithRequestID returns a new context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetRequestIDFromContext extracts the request ID from a standard context,
// or "" when absent.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithLogger returns a new context carrying the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// GetLoggerOrDefault extracts the request-scoped logger, falling back to the
// provided logger when absent.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// SetIdentity attaches the authenticated identity to the echo context.
func SetIdentity(c echo.Context, identity *entity.AuthIdentity) {
	c.Set(KeyIdentity, identity)
}

// GetIdentity returns the authenticated identity, or nil when the request
// passed through no auth middleware.
func GetIdentity(c echo.Context) *entity.AuthIdentity {
	if identity, ok := c.Get(KeyIdentity).(*entity.AuthIdentity); ok {
		return identity
	}

	return nil
}
