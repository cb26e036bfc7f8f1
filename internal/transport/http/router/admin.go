package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geo-region-api/internal/core/auth"
	"geo-region-api/internal/service"
	mdw "geo-region-api/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1. Login is public; everything else
// requires an admin token.
func NewAdminEngine(l *zap.Logger, lim Limits, checks map[string]Check, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := newEngine(l, lim, checks)

	base := r.Group("/admin/v1")
	reg.MountAllPublic(base)

	admin := base.Group("")
	admin.Use(mdw.AuthJWT(jwter, service.RoleAdmin))
	reg.MountAllAdmin(admin)

	return r
}
