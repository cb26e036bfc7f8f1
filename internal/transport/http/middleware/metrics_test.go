package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsLabelsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/regions/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	byRoute := httpRequests.WithLabelValues("/regions/:id", http.MethodGet, "200")
	unmatched := httpRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before, beforeMiss := testutil.ToFloat64(byRoute), testutil.ToFloat64(unmatched)

	serve(r, httptest.NewRequest(http.MethodGet, "/regions/a", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/regions/b", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(byRoute))
	assert.Equal(t, beforeMiss+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}
