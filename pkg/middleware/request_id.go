package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/docsum/pkg/id"
)

const (
	// RequestIDHeader is the canonical request id header.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key for the request id.
	RequestIDKey = "request_id"
)

var ulidGen = id.NewULIDGenerator()

// RequestID propagates an incoming X-Request-ID or mints a new ULID.
// The id is stored on the gin context and echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = ulidGen.Generate()
		}

		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID returns the request id from the gin context, or "" if absent.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
