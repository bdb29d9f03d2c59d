package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/pkg/response"
)

// FaviconPath is answered with 204 before any other check
const FaviconPath = "/favicon.ico"

// Checker reports whether the service may answer requests
type Checker interface {
	Check() error
}

// Favicon answers browser favicon requests with an empty response
func Favicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == FaviconPath {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Gate rejects every request while the service is misconfigured or not ready
func Gate(checker Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checker.Check(); err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
