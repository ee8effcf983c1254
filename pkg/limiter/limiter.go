package limiter

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// DefaultTTL replaces a non-positive ttl.
const DefaultTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors keeps one token bucket per client IP and forgets IPs idle for longer than ttl.
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

func NewVisitors(rps int, burst int, ttl time.Duration) *Visitors {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Visitors{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (v *Visitors) Allow(ip string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	vis, ok := v.visitors[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.visitors[ip] = vis
	}
	vis.lastSeen = now

	return vis.limiter.AllowN(now, 1)
}

// Cleanup drops visitors idle for longer than ttl.
func (v *Visitors) Cleanup() {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	for ip, vis := range v.visitors {
		if now.Sub(vis.lastSeen) > v.ttl {
			delete(v.visitors, ip)
		}
	}
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.visitors)
}

// RunCleanup calls Cleanup every ttl until ctx is done.
func (v *Visitors) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(v.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup()
		}
	}
}

// Limit returns a gin middleware limiting requests per client IP.
// Idle visitors are dropped in the background until ctx is done.
func Limit(ctx context.Context, rps int, burst int, ttl time.Duration) gin.HandlerFunc {
	visitors := NewVisitors(rps, burst, ttl)

	go visitors.RunCleanup(ctx)

	return Middleware(visitors)
}

func Middleware(visitors *Visitors) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !visitors.Allow(c.ClientIP()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		c.Next()
	}
}
