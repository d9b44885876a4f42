// Package ratelimit limits requests per client IP with a token bucket.
package ratelimit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idleExpiry drops the limiter of an IP not seen for this long.
const idleExpiry = 10 * time.Minute

// Config of the rate limit middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// PerSecond is the sustained request rate per IP. Zero disables the limit.
	PerSecond float64

	// Burst is the bucket size.
	Burst int
}

// IPRateLimiter stores a rate limiter for each IP address.
type IPRateLimiter struct {
	ips *cache.Cache
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: cache.New(idleExpiry, 2*idleExpiry),
		r:   r,
		b:   b,
	}
}

// GetLimiter returns the rate limiter for an IP address, creating it on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if l, ok := i.ips.Get(ip); ok {
		// touch to push the expiry
		i.ips.SetDefault(ip, l)

		return l.(*rate.Limiter) //nolint:forcetypeassert
	}

	l := rate.NewLimiter(i.r, i.b)
	if err := i.ips.Add(ip, l, cache.DefaultExpiration); err != nil {
		// another request created it first
		if existing, ok := i.ips.Get(ip); ok {
			return existing.(*rate.Limiter) //nolint:forcetypeassert
		}
	}

	return l
}

// Len returns the number of tracked IPs.
func (i *IPRateLimiter) Len() int {
	return i.ips.ItemCount()
}

// New creates the rate limit middleware. Rejected requests get 429.
func New(cfg Config) fiber.Handler {
	if cfg.PerSecond <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	limiter := NewIPRateLimiter(rate.Limit(cfg.PerSecond), cfg.Burst)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if !limiter.GetLimiter(c.IP()).Allow() {
			return fiber.ErrTooManyRequests
		}

		return c.Next()
	}
}
