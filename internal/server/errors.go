package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe/internal/common"
)

// statusForKind maps the failure taxonomy onto HTTP statuses. Bad input is
// the caller's fault; an unreadable document is a semantically valid request
// that cannot be processed; everything downstream of the model endpoint is a
// bad gateway.
func statusForKind(kind string) int {
	switch kind {
	case "unsupported-input-format", "invalid-input":
		return http.StatusBadRequest
	case "unreadable-document":
		return http.StatusUnprocessableEntity
	case "upstream-unavailable", "malformed-output", "schema-violation":
		return http.StatusBadGateway
	case "not-found":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	kind := common.FailureKind(err)
	c.JSON(statusForKind(kind), gin.H{
		"error": gin.H{
			"kind":    kind,
			"message": err.Error(),
		},
	})
}
