package middleware

import (
	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Request ids
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// KeyRequestID is the context key of the request id
const KeyRequestID = "requestID"

// RequestID keeps a sane incoming request id or assigns a new UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 { // Oversized ids are replaced, not truncated
			id = uuid.NewString()
		}
		c.Set(KeyRequestID, id)
		c.Header(RequestIDHeader, id) // Echo it back to the client
		c.Next()
	}
}
