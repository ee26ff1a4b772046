package auth

import (
	"errors"
	"time"

	"fulfillment-ops/logger"
	"fulfillment-ops/middleware"
	userModel "fulfillment-ops/models/user"
	"fulfillment-ops/services/basicauth"
	"fulfillment-ops/services/session"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	authTypes "fulfillment-ops/types/auth"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController handles login, profile and password flows.
type AuthController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{DB: db, Logger: asyncLogger}
}

// Login verifies a credential pair and returns the user together with the
// Basic header the dashboard replays on every request. Inactive accounts
// are refused before the password is checked, so the message is the same
// whether or not the password was correct.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse login request", err)
		return utils.Respond(c, ac.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}

	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, ac.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var account userModel.User
	err := ac.DB.Where("email = ?", req.Email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, ac.Logger, types.Fail(
				fiber.StatusUnauthorized, "Invalid credentials"))
		}
		logger.Error("Failed to look up user for login", err)
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusInternalServerError, "Database error"))
	}

	if !account.IsActive() {
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusUnauthorized, "Account is inactive. Please contact administrator."))
	}

	if !basicauth.CheckPassword(req.Password, account.Password) {
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusUnauthorized, "Invalid credentials"))
	}

	now := time.Now()
	account.LastLogin = &now
	if err := ac.DB.Model(&userModel.User{}).Where("id = ?", account.ID).
		Update("last_login", now).Error; err != nil {
		logger.Error("Failed to record last login", err)
	}

	resp := authTypes.LoginResponse{
		User:       account,
		AuthHeader: basicauth.Encode(req.Email, req.Password),
		AuthType:   "Basic",
	}

	if account.IsVendor() {
		if err := session.EnsureVendorSession(ac.DB, &account); err != nil {
			logger.Error("Failed to ensure vendor session", err)
		} else {
			resp.VendorToken = account.Token
		}
	}

	logger.Success("User logged in: " + account.Email)
	return utils.Respond(c, ac.Logger, types.Ok(fiber.StatusOK, "Login successful", resp))
}

// Profile returns the authenticated user sans password.
func (ac *AuthController) Profile(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusUnauthorized, "Authentication required"))
	}
	return utils.Respond(c, ac.Logger, types.Ok(fiber.StatusOK, "Profile retrieved", account))
}

// ChangePassword verifies the old password before storing the new hash.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusUnauthorized, "Authentication required"))
	}

	var req authTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse change-password request", err)
		return utils.Respond(c, ac.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}

	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, ac.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	if !basicauth.CheckPassword(req.OldPassword, account.Password) {
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusUnauthorized, "Old password is incorrect"))
	}

	hashed, err := basicauth.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err)
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to update password"))
	}

	if err := ac.DB.Model(&userModel.User{}).Where("id = ?", account.ID).
		Update("password", hashed).Error; err != nil {
		logger.Error("Failed to store new password", err)
		return utils.Respond(c, ac.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to update password"))
	}

	logger.Success("Password changed for " + account.Email)
	return utils.Respond(c, ac.Logger, types.Ok(fiber.StatusOK, "Password changed successfully", nil))
}
