package middleware

import (
	"log/slog"

	deliverycontext "mycv/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware assigns every request an ID and a logger scoped to it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process reuses an acceptable X-Request-Id from the client and otherwise
// mints a UUID. The ID is echoed in the response and stored on both the echo
// and the request context, together with a logger carrying request_id.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		requestID := req.Header.Get(deliverycontext.HeaderXRequestID)
		if !deliverycontext.AcceptableRequestID(requestID) {
			requestID = uuid.NewString()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		scoped := m.logger.With(slog.String("request_id", requestID))

		ctx := deliverycontext.WithRequestID(req.Context(), requestID)
		c.SetRequest(req.WithContext(deliverycontext.WithLogger(ctx, scoped)))

		return next(c)
	}
}
