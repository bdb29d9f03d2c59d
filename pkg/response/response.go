package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/apperr"
)

// Success sends {"success": data} with status 200
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": data})
}

// Error sends {"error": message}
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// Warning sends {"warning": message}
func Warning(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"warning": message})
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, apperr.Internal(nil).Message)
}

// StatusOf maps an error kind to its HTTP status
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, apperr.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError sends the response for err. Rate-limit errors are warnings,
// everything else is an error; internal details are never exposed.
func FromError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusTooManyRequests {
		Warning(c, status, apperr.MessageOf(err))
		return
	}
	Error(c, status, apperr.MessageOf(err))
}
