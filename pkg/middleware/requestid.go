package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"
const requestIDContextKey = "request_id"

// RequestID assigns a request-scoped identifier, reusing the caller-supplied
// X-Request-ID header when present so requests can be traced end to end.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request ID stashed by RequestID, or "" if the
// middleware was not installed.
func GetRequestID(c *gin.Context) string {
	id, ok := c.Get(requestIDContextKey)
	if !ok {
		return ""
	}
	s, _ := id.(string)
	return s
}
