// Package limiter keeps one token bucket per client key.
// Package limiter 为每个客户端键维护一个令牌桶
package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	Capacity() int64
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Capacity 令牌桶容量，即窗口内允许的最大请求数
	Capacity int64
	// Window 令牌完全补满所需时间
	Window time.Duration
}

// FillInterval returns the time needed to add one token.
func (r BucketRule) FillInterval() time.Duration {
	if r.Capacity <= 0 {
		return r.Window
	}
	return r.Window / time.Duration(r.Capacity)
}

type entry struct {
	bucket   *ratelimit.Bucket
	lastSeen time.Time
}

// IPLimiter 按客户端 IP 限流，空闲的令牌桶会被定期回收
type IPLimiter struct {
	rule BucketRule

	mu        sync.Mutex
	buckets   map[string]*entry
	lastSweep time.Time
	now       func() time.Time
}

func NewIPLimiter(rule BucketRule) *IPLimiter {
	return &IPLimiter{
		rule:      rule,
		buckets:   make(map[string]*entry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *IPLimiter) Key(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "::1" {
		ip = "127.0.0.1"
	}
	return ip
}

func (l *IPLimiter) Capacity() int64 {
	return l.rule.Capacity
}

// GetBucket returns the bucket of key, creating it on first use.
// GetBucket 返回 key 对应的令牌桶，首次访问时创建
func (l *IPLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	if l.rule.Capacity <= 0 || l.rule.Window <= 0 {
		return nil, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.buckets[key]
	if !ok {
		e = &entry{bucket: ratelimit.NewBucketWithQuantum(l.rule.FillInterval(), l.rule.Capacity, 1)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	return e.bucket, true
}

// 超过一个窗口未访问的桶必然已经补满，删除后重建不影响限流结果
func (l *IPLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.rule.Window {
		return
	}
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) >= l.rule.Window {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked keys.
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
