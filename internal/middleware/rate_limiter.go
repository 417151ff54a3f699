package middleware

import (
	"sync"
	"time"

	"veena-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Idle buckets are
// dropped after idleTTL.
type RateLimiter struct {
	buckets   map[string]*bucket
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	mutex     sync.Mutex
	log       logger.ILogger
}

func NewRateLimiter(perSecond, burst int, log logger.ILogger) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		rate:      rate.Limit(perSecond),
		burstSize: burst,
		idleTTL:   10 * time.Minute,
		log:       log,
	}
}

func (r *RateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	b, ok := r.buckets[ip]
	if !ok {
		r.sweep(now)
		b = &bucket{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (r *RateLimiter) sweep(now time.Time) {
	for ip, b := range r.buckets {
		if now.Sub(b.lastSeen) > r.idleTTL {
			delete(r.buckets, ip)
		}
	}
}

func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.IP()
		if !r.limiterFor(clientIP, time.Now()).Allow() {
			r.log.Warn("HTTP", "Too many requests", map[string]interface{}{
				"ip":         clientIP,
				"request_id": GetRequestID(c),
			})
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
