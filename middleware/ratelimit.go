package middleware

import (
	"net/http"
	"sync"
	"time"

	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const limiterTTL = time.Hour

type ipLimiters struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

func newIPLimiters(limit rate.Limit, burst int, ttl time.Duration) *ipLimiters {
	return &ipLimiters{
		limiters: cache.New(ttl, 10*time.Minute),
		limit:    limit,
		burst:    burst,
	}
}

// get returns the limiter for ip, refreshing its expiry on every hit so
// only idle clients age out of the cache.
func (l *ipLimiters) get(ip string) *rate.Limiter {
	if cached, ok := l.limiters.Get(ip); ok {
		limiter := cached.(*rate.Limiter)
		l.limiters.SetDefault(ip, limiter)
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.limiters.Get(ip); ok {
		limiter := cached.(*rate.Limiter)
		l.limiters.SetDefault(ip, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(ip, limiter)
	return limiter
}

// RateLimit throttles requests per client IP. It fronts the booking and
// contact endpoints to keep scripted submissions out. Limiter state for
// idle IPs expires after an hour.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(limit, burst, limiterTTL)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, "Too many requests, please slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
