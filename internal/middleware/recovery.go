package middleware

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/pkg/response"
)

// Recovery turns panics into a 500 response
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error("an error occurred while handling the request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		response.InternalError(c)
		c.Abort()
	})
}
