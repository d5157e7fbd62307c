package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeyRequestID is the Gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestID tags each request with an ID for log correlation. An inbound
// X-Request-ID from a proxy is kept so traces line up across services;
// otherwise a fresh UUID is minted. The ID is echoed on the response header
// and in the envelope metadata.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
