package avaserial

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vyrodovalexey/avaserial/internal/observability"
)

// RequestIDHeader is the header carrying the request ID echoed by RenderJSON.
const RequestIDHeader = "X-Request-ID"

// RenderJSON serializes data with the given serializer and writes the result
// as a JSON response. The client's request ID is echoed back, or a new one
// is generated, and made available to the serializer through the context.
//
// Structural validation failures and serializer errors are reported as a
// 500 response; the error is also attached to the gin context for any
// logging middleware.
func RenderJSON(c *gin.Context, status int, data, serializer interface{}, opts *Options) {
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	c.Header(RequestIDHeader, requestID)

	ctx := observability.ContextWithRequestID(c.Request.Context(), requestID)
	result, err := Serialize(ctx, FromGin(c), data, serializer, opts)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(status, result)
}
