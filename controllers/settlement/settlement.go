package settlement

import (
	"errors"
	"os"
	"strconv"

	"fulfillment-ops/logger"
	"fulfillment-ops/middleware"
	settlementModel "fulfillment-ops/models/settlement"
	settlementService "fulfillment-ops/services/settlement"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	settlementTypes "fulfillment-ops/types/settlement"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SettlementController exposes the vendor payout workflow.
type SettlementController struct {
	DB      *gorm.DB
	Service *settlementService.Service
	Logger  *logger.AsyncLogger
}

func NewSettlementController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *SettlementController {
	return &SettlementController{DB: db, Service: settlementService.NewService(db), Logger: asyncLogger}
}

// Request opens a settlement for the calling vendor's full remaining
// balance.
func (sc *SettlementController) Request(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	var req settlementTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, sc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	created, err := sc.Service.CreateRequest(account.ID, req.UpiID)
	if err != nil {
		switch {
		case errors.Is(err, settlementService.ErrInvalidUPI):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid UPI id format"))
		case errors.Is(err, settlementService.ErrNothingToSettle):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "No amount available for settlement"))
		default:
			logger.Error("Failed to create settlement request", err)
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to create settlement"))
		}
	}

	logger.Success("Settlement requested by vendor " + account.Email)
	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusCreated, "Settlement request created", created))
}

// MySettlements lists the calling vendor's settlements, newest first.
func (sc *SettlementController) MySettlements(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	var settlements []settlementModel.Settlement
	err := sc.DB.Where("vendor_id = ?", account.ID).
		Order("created_at DESC").Find(&settlements).Error
	if err != nil {
		logger.Error("Failed to list vendor settlements", err)
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to list settlements"))
	}
	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusOK, "Settlements retrieved", settlements))
}

// Summary returns the calling vendor's balance breakdown.
func (sc *SettlementController) Summary(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	summary, err := sc.Service.PaymentSummary(account.ID)
	if err != nil {
		logger.Error("Failed to compute payment summary", err)
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to compute summary"))
	}
	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusOK, "Payment summary retrieved", summary))
}

// Index lists all settlements for admins with an optional status filter.
func (sc *SettlementController) Index(c *fiber.Ctx) error {
	q := sc.DB.Model(&settlementModel.Settlement{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var settlements []settlementModel.Settlement
	if err := q.Order("created_at DESC").Find(&settlements).Error; err != nil {
		logger.Error("Failed to list settlements", err)
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to list settlements"))
	}
	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusOK, "Settlements retrieved", settlements))
}

// Approve settles a pending request. Multipart form: amountPaid,
// transactionId and an optional paymentProof file.
func (sc *SettlementController) Approve(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	amountPaid, err := strconv.ParseFloat(c.FormValue("amountPaid"), 64)
	if err != nil || amountPaid <= 0 {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid amountPaid"))
	}
	transactionID := c.FormValue("transactionId")
	if transactionID == "" {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "transactionId is required"))
	}

	var proofPath *string
	if file, ferr := c.FormFile("paymentProof"); ferr == nil {
		path, serr := utils.SaveUpload(c, file)
		if serr != nil {
			logger.Error("Failed to save payment proof", serr)
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to save payment proof"))
		}
		proofPath = &path
	}

	updated, err := sc.Service.Approve(id, amountPaid, transactionID, proofPath, account.ID)
	if err != nil {
		switch {
		case errors.Is(err, settlementService.ErrNotFound):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusNotFound, "Settlement not found"))
		case errors.Is(err, settlementService.ErrNotPending):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Settlement is not in pending status"))
		case errors.Is(err, settlementService.ErrAmountExceedsRequest):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Amount paid exceeds requested amount"))
		default:
			logger.Error("Failed to approve settlement", err)
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to approve settlement"))
		}
	}

	logger.Success("Settlement approved by " + account.Email)
	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusOK, "Settlement approved", updated))
}

// Reject closes a pending settlement with a reason.
func (sc *SettlementController) Reject(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var req settlementTypes.RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, sc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	updated, err := sc.Service.Reject(id, req.Reason, account.ID)
	if err != nil {
		switch {
		case errors.Is(err, settlementService.ErrNotFound):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusNotFound, "Settlement not found"))
		case errors.Is(err, settlementService.ErrNotPending):
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, "Settlement is not in pending status"))
		default:
			logger.Error("Failed to reject settlement", err)
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to reject settlement"))
		}
	}

	return utils.Respond(c, sc.Logger, types.Ok(fiber.StatusOK, "Settlement rejected", updated))
}

// Proof streams the stored payment-proof file for a settlement.
func (sc *SettlementController) Proof(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var stl settlementModel.Settlement
	if err := sc.DB.First(&stl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusNotFound, "Settlement not found"))
		}
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	if stl.PaymentProof == nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusNotFound, "Payment proof not found"))
	}
	if _, err := os.Stat(*stl.PaymentProof); err != nil {
		return utils.Respond(c, sc.Logger, types.Fail(fiber.StatusNotFound, "Payment proof not found"))
	}

	return c.SendFile(*stl.PaymentProof)
}
