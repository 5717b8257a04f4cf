package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu  sync.Mutex
	ips map[string]*ipLimiter
	r   rate.Limit
	b   int
}

func (s *limiterSet) get(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	il, ok := s.ips[ip]
	if !ok {
		il = &ipLimiter{limiter: rate.NewLimiter(s.r, s.b)}
		s.ips[ip] = il
	}
	il.lastSeen = now
	return il.limiter
}

func (s *limiterSet) prune(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, il := range s.ips {
		if il.lastSeen.Before(cutoff) {
			delete(s.ips, ip)
		}
	}
}

// RateLimit provides per-IP token-bucket rate limiting.
// r = requests per second, b = burst size. Idle entries are pruned until
// ctx is done.
func RateLimit(ctx context.Context, r rate.Limit, b int) gin.HandlerFunc {
	set := &limiterSet{ips: make(map[string]*ipLimiter), r: r, b: b}

	go func() {
		ticker := time.NewTicker(limiterIdle / 2)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				set.prune(now.Add(-limiterIdle))
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(c *gin.Context) {
		if !set.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
