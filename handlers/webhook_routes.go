// handlers/webhook_routes.go
package handlers

import (
	"context"
	"time"

	"wellness-payout-system/middleware"
	"wellness-payout-system/models"
	"wellness-payout-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupWebhookRoutes wires the vendor webhook ingress. The vendor expects a
// quick 2xx — verification runs in the background and its outcome never
// changes the response.
func SetupWebhookRoutes(app *fiber.App, verification *services.VerificationService, log *zap.SugaredLogger) {
	app.Post("/webhooks/vendor", middleware.WebhookAuthMiddleware(log), func(c *fiber.Ctx) error {
		var event models.WebhookEvent
		if err := c.BodyParser(&event); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid webhook payload"})
		}

		dataType, ok := models.DataTypeForEvent(event.EventType)
		if !ok {
			// Unknown events are acked so the vendor doesn't retry them.
			log.Debugw("ignoring webhook event", "event_type", event.EventType)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ignored"})
		}

		log.Infow("webhook received", "event_type", event.EventType, "user_id", event.UserID, "data_type", dataType)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := verification.RunCycleForDataType(ctx, dataType); err != nil {
				log.Errorw("webhook-triggered cycle finished with errors", "data_type", dataType, "error", err)
			}
		}()

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "accepted"})
	})
}
