// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const visitorTTL = 3 * time.Minute

// ipLimiter tracks one token bucket per client IP. Buckets for idle
// clients are dropped after visitorTTL.
type ipLimiter struct {
	mtx     sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
	}
	go l.evictIdle()
	return l
}

func (l *ipLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)
		l.mtx.Lock()
		for ip, b := range l.buckets {
			if time.Since(b.lastSeen) > visitorTTL {
				delete(l.buckets, ip)
			}
		}
		l.mtx.Unlock()
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *ipLimiter) middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.allow(ip) {
			logrus.WithFields(logrus.Fields{
				"ip":    ip,
				"scope": scope,
				"path":  c.Request.URL.Path,
			}).Warn("Rate limit exceeded")

			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

var (
	generalLimiter = newIPLimiter(rate.Every(time.Second), 20) // 20 requests per second
	uploadLimiter  = newIPLimiter(rate.Every(time.Minute), 10) // 10 uploads per minute
)

// GeneralRateLimit throttles all traffic per client IP.
func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.middleware("general")
}

// UploadRateLimit throttles the unauthenticated file-upload endpoint
// much harder; blob inserts are the most expensive write path.
func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.middleware("upload")
}
