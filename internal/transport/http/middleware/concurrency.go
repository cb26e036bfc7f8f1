package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"geo-region-api/internal/domain"
	resp "geo-region-api/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests; waiters give up when their
// request context ends.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Abort(c, domain.CodeTimeout, "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
