package main

import (
	"errors"
	"fmt"
	"fulfillment-ops/database"
	"fulfillment-ops/logger"
	"fulfillment-ops/routes"
	"fulfillment-ops/services/scheduler"
	"fulfillment-ops/services/session"
	"fulfillment-ops/types"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       50 * 1024 * 1024, // 50MB body limit
		ErrorHandler:    errorHandler,
	})
	env := godotenv.Load()
	if env != nil {
		logger.Error("Error loading .env file", env)
		fmt.Println("Error loading .env file", env)
	}
	logger.Success("Server is running on ip: " + os.Getenv("APP_HOST") + " port: " + os.Getenv("APP_PORT") +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db)

	// Vendors keep a long-lived session token; mint any missing ones on boot.
	session.EnsureAllVendorSessions(db)

	scheduler.NewScheduler(db).Start()

	app_host := os.Getenv("APP_HOST")
	app_port := os.Getenv("APP_PORT")
	app.Listen(app_host + ":" + app_port)
}

// errorHandler is the fallback for errors that escape the controllers.
// Token errors from the vendor session codepath map to 401, kept for
// dashboard clients that branch on that status.
func errorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenNotValidYet) {
		return c.Status(fiber.StatusUnauthorized).JSON(types.Fail(
			fiber.StatusUnauthorized, "Invalid or expired session token"))
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	message := "Internal server error"
	if code != fiber.StatusInternalServerError {
		message = fiberErr.Message
	} else if os.Getenv("APP_ENV") == "development" {
		message = err.Error()
	}

	logger.Error("Unhandled request error", err)
	return c.Status(code).JSON(types.Fail(code, message))
}
