package middleware

import (
	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
	resp "geo-region-api/internal/transport/http/response"
)

// RecoveryHandler answers a recovered panic with the 500 envelope. It is
// passed to ginzap.CustomRecoveryWithZap, which logs the panic and stack.
func RecoveryHandler(c *gin.Context, _ any) {
	resp.Abort(c, domain.CodeInternal, "internal error")
}
