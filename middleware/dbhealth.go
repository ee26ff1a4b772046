package middleware

import (
	"fulfillment-ops/database"
	"fulfillment-ops/logger"
	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
)

// EnsureDatabase probes the connection before the handler runs. Ping
// attempts one reconnect internally, so only a still-dead database ends in
// 503.
func EnsureDatabase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(); err != nil {
			logger.Error("Database unavailable", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(types.Fail(
				fiber.StatusServiceUnavailable, "Database connection unavailable"))
		}
		return c.Next()
	}
}
