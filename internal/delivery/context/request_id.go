package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID   ContextKey = "request_id"
	KeyLogger      ContextKey = "logger"
	KeyCurrentUser ContextKey = "current_user"

	// HeaderXRequestID carries the request ID in both directions.
	HeaderXRequestID = "X-Request-Id"
)

// maxRequestIDLen bounds client-supplied request IDs before they reach logs and headers.
const maxRequestIDLen = 128

// AcceptableRequestID reports whether a client-supplied request ID can be
// reused verbatim: non-empty, bounded, and visible ASCII only.
func AcceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}

	return true
}

// GetRequestID returns the request ID stored on c, or a fresh UUID when the
// request never went through the request ID middleware.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(KeyRequestID)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext returns "" when ctx carries no request ID.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLogger returns the request-scoped logger, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(KeyLogger).(*slog.Logger)

	return logger
}

// GetLoggerOrDefault is GetLogger with a fallback for code paths that run
// outside a request, such as background jobs and tests.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// EnrichLogger adds attrs to the request-scoped logger of c so that every
// later log line of the request, including those from use cases and
// repositories, carries them. It is a no-op when c has no scoped logger.
func EnrichLogger(c echo.Context, attrs ...any) {
	ctx := c.Request().Context()
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	c.SetRequest(c.Request().WithContext(WithLogger(ctx, logger.With(attrs...))))
}
