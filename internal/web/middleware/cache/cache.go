// Package cache keeps successful GET responses in memory and drops them all
// after any successful write.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

// HeaderCache reports HIT or MISS on cached routes.
const HeaderCache = "X-Cache"

// Config of the cache middleware.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c *fiber.Ctx) bool

	// TTL of a cached response. Zero disables caching.
	TTL time.Duration

	// Store holds the responses. Optional, created from TTL when nil.
	Store *cache.Cache
}

type cachedResponse struct {
	status      int
	contentType []byte
	body        []byte
}

// New creates the cache middleware.
func New(cfg Config) fiber.Handler {
	if cfg.TTL <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	store := cfg.Store
	if store == nil {
		store = cache.New(cfg.TTL, 2*cfg.TTL)
	}

	// generation changes on every flush; a GET that overlapped one is not stored
	var generation atomic.Uint64

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		if c.Method() != fiber.MethodGet {
			err := c.Next()
			if err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
				generation.Add(1)
				store.Flush()
			}

			return err
		}

		key := c.OriginalURL()
		if v, found := store.Get(key); found {
			resp := v.(cachedResponse) //nolint:forcetypeassert

			c.Set(HeaderCache, "HIT")
			c.Response().Header.SetContentTypeBytes(resp.contentType)

			return c.Status(resp.status).Send(resp.body)
		}

		c.Set(HeaderCache, "MISS")

		gen := generation.Load()

		if err := c.Next(); err != nil {
			return err
		}

		// only successful responses are cached
		status := c.Response().StatusCode()
		if status >= fiber.StatusOK && status < fiber.StatusMultipleChoices && generation.Load() == gen {
			store.Set(key, cachedResponse{
				status:      status,
				contentType: append([]byte(nil), c.Response().Header.ContentType()...),
				body:        append([]byte(nil), c.Response().Body()...),
			}, cfg.TTL)
		}

		return nil
	}
}
