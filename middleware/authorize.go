package middleware

import (
	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles gates a route on exact role-set membership. There is no
// hierarchy: a route that admits admin does not admit superadmin unless it
// lists superadmin too.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		account, ok := CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
				fiber.StatusUnauthorized, "Authentication required"))
		}

		if !allowed[account.Role] {
			return c.Status(fiber.StatusForbidden).JSON(types.Fail(
				fiber.StatusForbidden, "Insufficient permissions"))
		}
		return c.Next()
	}
}
