package middlewares

import (
	"github.com/google/uuid"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/pkg/logger"
)

// requestIDKey is the context key for storing the request ID.
type requestIDKey struct{}

// RequestIDHeader is read from the request and echoed on the response.
const RequestIDHeader = "X-Request-ID"

// RequestID returns middleware that tags each request with an ID. An ID sent
// by a proxy in X-Request-ID is kept; otherwise a UUIDv7 is generated.
func RequestID() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			reqID := c.Header(RequestIDHeader)
			if reqID == "" {
				reqID = newRequestID()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader(RequestIDHeader, reqID)
			return next(c)
		}
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// GetRequestID returns the request ID, or "" when RequestID is not installed.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds "request_id" to every log record of a request.
//
//	maxitsa.WithLogger("web", middlewares.RequestIDExtractor())
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringExtractor(requestIDKey{}, "request_id")
}
