package utils

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"
)

const visitorIdleTime = 10 * time.Minute

// lastSeen is written under the map shard lock but read by prune without
// it, so it is atomic.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	message   string
	visitors  cmap.ConcurrentMap[string, *visitor]
	lastPrune atomic.Int64 // unix nanoseconds
}

func NewRateLimiter(limit rate.Limit, burst int, message string) *RateLimiter {
	rl := &RateLimiter{
		limit:    limit,
		burst:    burst,
		message:  message,
		visitors: cmap.New[*visitor](),
	}
	rl.lastPrune.Store(time.Now().UnixNano())
	return rl
}

func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()
	v := rl.visitors.Upsert(ip, nil, func(exist bool, current *visitor, _ *visitor) *visitor {
		if exist {
			current.lastSeen.Store(now.UnixNano())
			return current
		}
		fresh := &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		fresh.lastSeen.Store(now.UnixNano())
		return fresh
	})
	last := rl.lastPrune.Load()
	if now.UnixNano()-last > int64(visitorIdleTime) && rl.lastPrune.CompareAndSwap(last, now.UnixNano()) {
		go rl.prune(now.Add(-visitorIdleTime))
	}
	return v.limiter.Allow()
}

func (rl *RateLimiter) prune(before time.Time) {
	cutoff := before.UnixNano()
	for item := range rl.visitors.IterBuffered() {
		if item.Val.lastSeen.Load() < cutoff {
			rl.visitors.RemoveCb(item.Key, func(_ string, v *visitor, exists bool) bool {
				return exists && v.lastSeen.Load() < cutoff
			})
		}
	}
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, rl.message)
			c.Abort()
			return
		}
		c.Next()
	}
}
