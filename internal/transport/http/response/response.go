package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geo-region-api/internal/domain"
)

// Write sends r as the JSON body: ok on success, Status(code) otherwise.
func Write[T any](c *gin.Context, ok int, r domain.Result[T]) {
	if !r.Success {
		status := http.StatusBadRequest
		if r.Error != nil {
			status = Status(r.Error.Code)
		}
		c.JSON(status, failure{Error: r.Error})
		return
	}
	if ok == 0 {
		ok = http.StatusOK
	}
	c.JSON(ok, r)
}

// failure is the envelope of a failed result; it never carries data.
type failure struct {
	Success bool            `json:"success"`
	Error   *domain.Failure `json:"error"`
}

// Abort stops the chain with a failure envelope.
func Abort(c *gin.Context, code, msg string) {
	c.AbortWithStatusJSON(Status(code), failure{Error: domain.Fail[struct{}](code, msg).Error})
}

// Message is the body of a successful delete.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
