package response

import (
	"net/http"
	"strings"

	"geo-region-api/internal/domain"
)

var statusByCode = map[string]int{
	domain.CodeEmailAlreadyExists: http.StatusConflict,
	domain.CodeValidation:         http.StatusBadRequest,
	domain.CodeInvalidQuery:       http.StatusBadRequest,
	domain.CodeUnauthorized:       http.StatusUnauthorized,
	domain.CodeForbidden:          http.StatusForbidden,
	domain.CodeTooManyRequests:    http.StatusTooManyRequests,
	domain.CodeTimeout:            http.StatusGatewayTimeout,
	domain.CodeInternal:           http.StatusInternalServerError,
}

// Status maps a failure code to an HTTP status: *_NOT_FOUND is 404, the
// transport codes map to their own statuses and anything else is 400.
func Status(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
