package user

import (
	"errors"

	"fulfillment-ops/constants"
	"fulfillment-ops/logger"
	userModel "fulfillment-ops/models/user"
	"fulfillment-ops/services/basicauth"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	userTypes "fulfillment-ops/types/user"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController handles the superadmin user directory.
type UserController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewUserController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{DB: db, Logger: asyncLogger}
}

// Store creates an account. Vendors must carry a warehouse id and admins a
// contact number; the check runs on the assembled model so the rule lives
// in one place.
func (uc *UserController) Store(c *fiber.Ctx) error {
	var req userTypes.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse create-user request", err)
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}

	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, uc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	account := userModel.User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: constants.UserStatusActive,
	}
	if req.WarehouseID != "" {
		account.WarehouseID = &req.WarehouseID
	}
	if req.ContactNumber != "" {
		account.ContactNumber = &req.ContactNumber
	}

	if field := account.MissingRoleField(); field != "" {
		return utils.Respond(c, uc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed",
			[]types.FieldError{{Field: field, Rule: "required", Message: field + " is required for role " + req.Role}}))
	}

	hashed, err := basicauth.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to create user"))
	}
	account.Password = hashed

	if err := uc.DB.Create(&account).Error; err != nil {
		logger.Error("Failed to create user", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to create user"))
	}

	logger.Success("User created: " + account.Email)
	return utils.Respond(c, uc.Logger, types.Ok(fiber.StatusCreated, "User created successfully", account))
}

// Index lists accounts with optional role and status filters.
func (uc *UserController) Index(c *fiber.Ctx) error {
	q := uc.DB.Model(&userModel.User{})
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var accounts []userModel.User
	if err := q.Order("created_at DESC").Find(&accounts).Error; err != nil {
		logger.Error("Failed to list users", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to list users"))
	}
	return utils.Respond(c, uc.Logger, types.Ok(fiber.StatusOK, "Users retrieved", accounts))
}

// Update mutates the mutable profile fields.
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var req userTypes.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, uc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var account userModel.User
	if err := uc.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusNotFound, "User not found"))
		}
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.WarehouseID != "" {
		account.WarehouseID = &req.WarehouseID
	}
	if req.ContactNumber != "" {
		account.ContactNumber = &req.ContactNumber
	}

	if err := uc.DB.Save(&account).Error; err != nil {
		logger.Error("Failed to update user", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to update user"))
	}
	return utils.Respond(c, uc.Logger, types.Ok(fiber.StatusOK, "User updated successfully", account))
}

// SetStatus toggles an account between active and inactive.
func (uc *UserController) SetStatus(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var req userTypes.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, uc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var account userModel.User
	if err := uc.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusNotFound, "User not found"))
		}
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	account.Status = req.Status
	if err := uc.DB.Save(&account).Error; err != nil {
		logger.Error("Failed to update user status", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to update status"))
	}
	return utils.Respond(c, uc.Logger, types.Ok(fiber.StatusOK, "Status updated successfully", account))
}

// Destroy deletes an account. Superadmin accounts may never be deleted,
// regardless of who asks.
func (uc *UserController) Destroy(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var account userModel.User
	if err := uc.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusNotFound, "User not found"))
		}
		return utils.Respond(c, uc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	if account.Role == constants.RoleSuperAdmin {
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusForbidden, "Superadmin accounts cannot be deleted"))
	}

	if err := uc.DB.Delete(&account).Error; err != nil {
		logger.Error("Failed to delete user", err)
		return utils.Respond(c, uc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to delete user"))
	}

	logger.Success("User deleted: " + account.Email)
	return utils.Respond(c, uc.Logger, types.Ok(fiber.StatusOK, "User deleted successfully", nil))
}
