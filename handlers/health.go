package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/bursary-hub/database"
	"github.com/sahilchouksey/bursary-hub/utils/response"
)

// HandleCheckHealth reports whether the database answers
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
