package middleware

import (
	apihttp "github.com/Meesho/BharatMLStack/company-export/pkg/api/http"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxRequestIDLength = 128

// RequestID tags the request with an id, taken from the X-Request-Id header when the caller sent
// one. The id is echoed back and bound to a logger stored in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(apihttp.HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Header(apihttp.HeaderRequestID, requestID)

		logger := log.Logger.With().Str("requestId", requestID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}
