package middleware

import (
	"os"
	"strconv"
	"sync"
	"time"

	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// Advisory throttling for the login route. State is process-local: counters
// reset on restart, and in a multi-instance deployment each instance has an
// independent view, so the effective limit is N x instance-count.
const (
	defaultLimit = rate.Limit(2)
	defaultBurst = 5
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

// init starts the background cleanup routine.
func init() {
	go cleanupVisitors()
}

// getVisitor retrieves or creates a rate limiter for the given IP address.
func getVisitor(ip string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes old entries from the visitors map to prevent memory leaks.
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}

func configuredLimits() (rate.Limit, int) {
	limit := defaultLimit
	burst := defaultBurst
	if v, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64); err == nil && v > 0 {
		limit = rate.Limit(v)
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && v > 0 {
		burst = v
	}
	return limit, burst
}

// LoginRateLimit throttles by client IP and answers 429 when exceeded.
func LoginRateLimit() fiber.Handler {
	limit, burst := configuredLimits()

	return func(c *fiber.Ctx) error {
		limiter := getVisitor(c.IP(), limit, burst)
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(types.Fail(
				fiber.StatusTooManyRequests, "Too many login attempts. Please try again later."))
		}
		return c.Next()
	}
}
