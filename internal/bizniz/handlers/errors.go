package handlers

import (
	"errors"
	"net/http"

	e "github.com/gartstein/bizniz/internal/bizniz/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// mapServiceError maps domain or repository errors to HTTP status codes.
// Conflicts are client errors: the caller must reassign or delete employees.
func (h *Handler) mapServiceError(err error) int {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, e.ErrInvalidInput), errors.Is(err, e.ErrConflict):
		return http.StatusBadRequest
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(h.mapServiceError(err), messageResponse{Message: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, messageResponse{Message: message})
}
