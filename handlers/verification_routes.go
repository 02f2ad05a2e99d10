// handlers/verification_routes.go
package handlers

import (
	"wellness-payout-system/middleware"
	"wellness-payout-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupVerificationRoutes exposes the engine's control plane.
func SetupVerificationRoutes(app *fiber.App, verification *services.VerificationService, log *zap.SugaredLogger) {
	group := app.Group("/verification", middleware.ServiceAuthMiddleware(log))

	group.Post("/start", func(c *fiber.Ctx) error {
		if err := verification.Start(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start verification engine",
				"cause": err.Error(),
			})
		}
		return c.JSON(verification.Status())
	})

	group.Post("/stop", func(c *fiber.Ctx) error {
		if err := verification.Stop(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to stop verification engine",
				"cause": err.Error(),
			})
		}
		return c.JSON(verification.Status())
	})

	// Manual "verify now" — same cycle the schedule runs.
	group.Post("/trigger", func(c *fiber.Ctx) error {
		if err := verification.RunCycle(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "verification cycle finished with errors",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "completed"})
	})

	group.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(verification.Status())
	})
}
