package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hmdavis/whatsapp-diet/utils"
)

const RequestIDKey = "request_id"

// RequestID tags every request with a unique id for log correlation. An id
// supplied by the caller in X-Request-ID is kept. The id travels on the
// request context so service-layer logs can pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Request = c.Request.WithContext(utils.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
