package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	newApp := func(err error) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
		app.Get("/boom", func(c *fiber.Ctx) error { return err })
		return app
	}

	request := func(app *fiber.App) int {
		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	t.Run("TokenErrorsMapTo401", func(t *testing.T) {
		for _, err := range []error{
			jwt.ErrTokenExpired,
			jwt.ErrTokenMalformed,
			jwt.ErrSignatureInvalid,
			jwt.ErrTokenNotValidYet,
		} {
			assert.Equal(t, fiber.StatusUnauthorized, request(newApp(err)), "error %v", err)
		}
	})

	t.Run("FiberErrorKeepsItsCode", func(t *testing.T) {
		assert.Equal(t, fiber.StatusNotFound, request(newApp(fiber.ErrNotFound)))
	})

	t.Run("UnknownErrorIs500", func(t *testing.T) {
		assert.Equal(t, fiber.StatusInternalServerError, request(newApp(assert.AnError)))
	})
}
