// handlers/goal_routes.go
package handlers

import (
	"errors"

	"wellness-payout-system/middleware"
	"wellness-payout-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupGoalRoutes wires goal creation and reads. Goals are never deleted.
func SetupGoalRoutes(app *fiber.App, goals *services.GoalService, log *zap.SugaredLogger) {
	group := app.Group("/goals", middleware.ServiceAuthMiddleware(log))

	group.Post("/", func(c *fiber.Ctx) error {
		var req services.GoalRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		goal, err := goals.CreateGoal(c.Context(), &req)
		if err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "validation failed",
					"cause": verrs.Error(),
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(goal)
	})

	group.Get("/", func(c *fiber.Ctx) error {
		list, err := goals.ListGoals(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list goals"})
		}
		return c.JSON(fiber.Map{"goals": list})
	})

	// Expired-but-unmet goals — inert, observable, never verified again.
	group.Get("/expired", func(c *fiber.Ctx) error {
		list, err := goals.ListExpiredGoals(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list expired goals"})
		}
		return c.JSON(fiber.Map{"goals": list})
	})

	group.Get("/:id", func(c *fiber.Ctx) error {
		goal, err := goals.GetGoal(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrGoalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "goal not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load goal"})
		}
		return c.JSON(goal)
	})
}
