package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// APIKeyAuth rejects requests without a configured API key. With no keys
// configured the check is skipped (local development).
func APIKeyAuth(apiKeys []string) fiber.Handler {
	if len(apiKeys) == 0 {
		log.Println("⚠️  No API keys configured, authentication disabled")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	valid := make(map[string]bool, len(apiKeys))
	for _, key := range apiKeys {
		valid[key] = true
	}

	return keyauth.New(keyauth.Config{
		KeyLookup: "header:X-API-Key",
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if valid[key] {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid API key",
			})
		},
	})
}

// RateLimit throttles a route to maxPerMinute requests per caller
// identity (API key, falling back to client IP).
func RateLimit(maxPerMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if key := c.Get("X-API-Key"); key != "" {
				return key
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		},
	})
}
