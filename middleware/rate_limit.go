package middleware

import (
	"math"
	"strconv"

	apperrors "github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/gin-gonic/gin"
)

// SubmissionRateLimiter throttles requests per client IP. Denied requests
// get a 429 with a Retry-After header and never reach the handler.
func SubmissionRateLimiter(limiter services.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow("feedback:" + c.ClientIP())
		if ok {
			c.Next()
			return
		}

		secs := int(math.Ceil(retryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		_ = c.Error(apperrors.RateLimitExceeded(secs))
		c.Abort()
	}
}
