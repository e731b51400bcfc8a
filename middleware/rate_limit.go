package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter applies a per client IP token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// NewRateLimiter allows perMinute requests per IP with a burst of half that.
func NewRateLimiter(perMinute int) *RateLimiter {
	perMinute = max(perMinute, 1)
	return &RateLimiter{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		idle:     5 * time.Minute,
	}
}

// Middleware rejects requests over the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.Allow(ctx.ClientIP()) {
			ctx.String(http.StatusTooManyRequests, "too many attempts, try again later")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// Allow consumes one token for key.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, rl := range l.limiters {
		if now.After(rl.expires) {
			delete(l.limiters, k)
		}
	}

	rl, ok := l.limiters[key]
	if !ok {
		rl = &rateLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = rl
	}
	rl.expires = now.Add(l.idle)
	return rl.limiter.Allow()
}
