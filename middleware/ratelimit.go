package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter tracks one token bucket per client IP. Idle clients are
// pruned so the map does not grow with every address ever seen.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const clientIdleTTL = 3 * time.Minute

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*clientEntry),
		limit:   limit,
		burst:   burst,
	}
}

func (cl *clientLimiter) allow(ip string) bool {
	now := time.Now()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	entry, ok := cl.clients[ip]
	if !ok {
		cl.prune(now)
		entry = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

func (cl *clientLimiter) prune(now time.Time) {
	for ip, entry := range cl.clients {
		if now.Sub(entry.lastSeen) > clientIdleTTL {
			delete(cl.clients, ip)
		}
	}
}

// clientIP honors the first X-Forwarded-For hop when present, matching
// what the mobile clients see behind the load balancer.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.ClientIP()
}

// RateLimit rejects clients exceeding limit requests per second with the
// given burst, answering 429 with a Retry-After hint.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	cl := newClientLimiter(limit, burst)

	return func(c *gin.Context) {
		if !cl.allow(clientIP(c)) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
