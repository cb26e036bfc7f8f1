package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"geo-region-api/internal/core/server"
	mdw "geo-region-api/internal/transport/http/middleware"
)

// Limits bounds request admission. Zero values disable the matching guard.
type Limits struct {
	RPS          float64
	Burst        int
	PerIP        bool
	Concurrency  int64
	MaxBodyBytes int64
	Timeout      time.Duration
}

// Check reports the health of one dependency.
type Check func(context.Context) error

const idleLimiterTTL = 10 * time.Minute

// newEngine builds the shared middleware chain plus /health and /metrics.
func newEngine(l *zap.Logger, lim Limits, checks map[string]Check) *gin.Engine {
	r := server.NewRouter(l)

	r.Use(mdw.RequestID())
	if lim.RPS > 0 {
		if lim.PerIP {
			r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst, idleLimiterTTL))
		} else {
			r.Use(mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
		}
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.Timeout > 0 {
		r.Use(mdw.Timeout(lim.Timeout))
	}
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	r.GET("/health", health(checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func health(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
