package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/core/auth"
	"geo-region-api/internal/domain"
	resp "geo-region-api/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthJWT requires a bearer token, and the given role when non-empty.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, domain.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, domain.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, domain.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}
