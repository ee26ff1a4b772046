package server

import (
	"fulfillment-ops/database"
	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
)

// Health reports process and database liveness.
func Health(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := database.Ping(); err != nil {
		dbStatus = "down"
	}

	return c.Status(fiber.StatusOK).JSON(types.Ok(fiber.StatusOK, "ok", fiber.Map{
		"database": dbStatus,
	}))
}
