package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	resp "geo-region-api/internal/transport/http/response"
)

// Timeout bounds the request context. Store and geocoder calls observe it;
// a handler that ran out of time without writing gets the TIMEOUT envelope.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, domain.CodeTimeout, "timeout")
		}
	}
}
