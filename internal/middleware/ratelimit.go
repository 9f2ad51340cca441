// File: internal/middleware/ratelimit.go
package middleware

import (
	"sync"

	"miniblocket_backend/internal/common"
	"miniblocket_backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters holds one token bucket per client IP.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (cl *clientLimiters) get(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	limiter, ok := cl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(cl.rps, cl.burst)
		cl.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit creates a per-client-IP rate limiting middleware, used on the
// credential endpoints to slow down brute forcing.
func RateLimit(cfg *config.Config) gin.HandlerFunc {
	cl := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(cfg.AuthRateLimitRPS),
		burst:    cfg.AuthRateLimitBurst,
	}

	return func(c *gin.Context) {
		if !cl.get(c.ClientIP()).Allow() {
			common.RespondWithError(c, common.NewAPIError(429, "TOO_MANY_REQUESTS", "Too many requests. Please slow down."))
			return
		}
		c.Next()
	}
}
