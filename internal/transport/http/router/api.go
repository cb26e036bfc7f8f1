package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAPIEngine serves the public resource API under /api/v1.
func NewAPIEngine(l *zap.Logger, lim Limits, checks map[string]Check, reg *Registry) *gin.Engine {
	r := newEngine(l, lim, checks)
	reg.MountAllAPI(r.Group("/api/v1"))
	return r
}
