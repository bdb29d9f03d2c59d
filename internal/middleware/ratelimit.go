package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/apperr"
	"github.com/jengzang/meteorites-backend-go/internal/ratelimit"
	"github.com/jengzang/meteorites-backend-go/pkg/response"
	"golang.org/x/time/rate"
)

// RateLimit allows one request per client per limiter interval.
// Denials are logged at most once a minute.
func RateLimit(limiter *ratelimit.Limiter, log *slog.Logger) gin.HandlerFunc {
	denied := &rate.Sometimes{First: 1, Interval: time.Minute}
	message := fmt.Sprintf("Rate limit exceeded: only 1 request per %ds allowed.",
		int(limiter.Interval()/time.Second))

	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), ClientIDFrom(c))
		if err != nil {
			log.Error("rate limit check failed", "error", err)
			response.FromError(c, apperr.Internal(err))
			c.Abort()
			return
		}

		if !allowed {
			denied.Do(func() {
				log.Warn("rate limit exceeded", "path", c.Request.URL.Path)
			})
			response.FromError(c, apperr.RateLimited(message))
			c.Abort()
			return
		}

		c.Next()
	}
}
