package handler

import (
	"alumnihub/backend/internal/apperr"
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperr.Kind]int{
	apperr.Validation:   http.StatusBadRequest,
	apperr.Unauthorized: http.StatusUnauthorized,
	apperr.Forbidden:    http.StatusForbidden,
	apperr.NotFound:     http.StatusNotFound,
	apperr.Conflict:     http.StatusConflict,
	apperr.RateLimited:  http.StatusTooManyRequests,
}

func statusOf(err error) int {
	if code, ok := statusByKind[apperr.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// writeError maps a service error to a status and a {"message": ...} body.
// Internal causes are logged, never returned.
func (h *Handler) writeError(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(code, gin.H{"message": apperr.MessageOf(err)})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
