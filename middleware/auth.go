// middleware/auth.go
package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ServiceAuthMiddleware validates the Bearer token on control-plane and goal
// routes. The token is shared with the gateway/UI backend.
func ServiceAuthMiddleware(log *zap.SugaredLogger) fiber.Handler {
	expectedToken := os.Getenv("SERVICE_TOKEN")
	if expectedToken == "" {
		log.Fatal("SERVICE_TOKEN is not set — service cannot authenticate callers")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Warnw("missing Authorization header", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != expectedToken {
			log.Warnw("invalid service token", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authentication token",
			})
		}
		return c.Next()
	}
}

// WebhookAuthMiddleware checks the vendor's shared webhook secret. When
// WEBHOOK_SECRET is unset the check is skipped (local development).
func WebhookAuthMiddleware(log *zap.SugaredLogger) fiber.Handler {
	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		log.Warn("WEBHOOK_SECRET not set — webhook ingress is unauthenticated")
	}

	return func(c *fiber.Ctx) error {
		if secret != "" && c.Get("X-Webhook-Secret") != secret {
			log.Warnw("webhook rejected, bad secret", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid webhook secret",
			})
		}
		return c.Next()
	}
}
