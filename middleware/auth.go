package middleware

import (
	"errors"

	"fulfillment-ops/database"
	"fulfillment-ops/models/user"
	"fulfillment-ops/services/basicauth"
	"fulfillment-ops/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BasicAuth verifies the Authorization header against the users table on
// every request. Each branch is terminal for the request: missing header,
// malformed header, unknown user, inactive account and password mismatch
// all end in 401.
func BasicAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
				fiber.StatusUnauthorized, "Authorization header missing"))
		}

		email, password, ok := basicauth.Decode(header)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
				fiber.StatusUnauthorized, "Invalid authorization header format"))
		}

		var account user.User
		err := database.DB.Where("email = ?", email).First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
					fiber.StatusUnauthorized, "Invalid credentials"))
			}
			return c.Status(fiber.StatusInternalServerError).JSON(types.Fail(
				fiber.StatusInternalServerError, "Database error"))
		}

		if !account.IsActive() {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
				fiber.StatusUnauthorized, "Account is inactive. Please contact administrator."))
		}

		if !basicauth.CheckPassword(password, account.Password) {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
				fiber.StatusUnauthorized, "Invalid credentials"))
		}

		c.Locals("user", &account)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user attached by BasicAuth.
func CurrentUser(c *fiber.Ctx) (*user.User, bool) {
	u, ok := c.Locals("user").(*user.User)
	return u, ok
}
