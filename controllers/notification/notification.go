package notification

import (
	"errors"
	"fmt"
	"time"

	"fulfillment-ops/logger"
	"fulfillment-ops/middleware"
	notificationModel "fulfillment-ops/models/notification"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	notificationTypes "fulfillment-ops/types/notification"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// NotificationController exposes the operational alert ledger.
type NotificationController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewNotificationController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *NotificationController {
	return &NotificationController{DB: db, Logger: asyncLogger}
}

// Store appends an alert to the ledger.
func (nc *NotificationController) Store(c *fiber.Ctx) error {
	var req notificationTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, nc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	n := notificationModel.Notification{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Severity: req.Severity,
		Status:   notificationModel.StatusPending,
		VendorID: req.VendorID,
		OrderID:  req.OrderID,
		Metadata: req.Metadata,
	}
	if err := nc.DB.Create(&n).Error; err != nil {
		logger.Error("Failed to create notification", err)
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to create notification"))
	}

	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusCreated, "Notification created", n))
}

// Index lists alerts ordered by status priority, then severity, then
// newest first. Filters: status, type, severity, vendor_id, order_id
// substring, date range and free-text search.
func (nc *NotificationController) Index(c *fiber.Ctx) error {
	q := nc.DB.Model(&notificationModel.Notification{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if severity := c.Query("severity"); severity != "" {
		q = q.Where("severity = ?", severity)
	}
	if vendor := c.Query("vendor_id"); vendor != "" {
		q = q.Where("vendor_id = ?", vendor)
	}
	if orderID := c.Query("order_id"); orderID != "" {
		q = q.Where("order_id LIKE ?", "%"+orderID+"%")
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD"))
		}
		q = q.Where("created_at >= ?", now.With(t).BeginningOfDay())
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD"))
		}
		q = q.Where("created_at <= ?", now.With(t).EndOfDay())
	}

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		// CAST AS TEXT: bare CHAR means character(1) on postgres and would
		// truncate multi-digit vendor ids.
		q = q.Where("title LIKE ? OR message LIKE ? OR order_id LIKE ? OR CAST(vendor_id AS TEXT) LIKE ?",
			like, like, like, like)
	}

	var notifications []notificationModel.Notification
	if err := q.Order(notificationModel.PriorityOrderSQL).Find(&notifications).Error; err != nil {
		logger.Error("Failed to list notifications", err)
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to list notifications"))
	}
	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusOK, "Notifications retrieved", notifications))
}

// Show returns one alert.
func (nc *NotificationController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var n notificationModel.Notification
	if err := nc.DB.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusNotFound, "Notification not found"))
		}
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}
	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusOK, "Notification retrieved", n))
}

// SetStatus moves an open alert between pending and in_progress. Terminal
// alerts never change again.
func (nc *NotificationController) SetStatus(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var req notificationTypes.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, nc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var n notificationModel.Notification
	if err := nc.DB.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusNotFound, "Notification not found"))
		}
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	if notificationModel.IsTerminal(n.Status) {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Notification is already resolved or dismissed"))
	}

	n.Status = req.Status
	if err := nc.DB.Save(&n).Error; err != nil {
		logger.Error("Failed to update notification status", err)
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to update status"))
	}
	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusOK, "Notification updated", n))
}

func (nc *NotificationController) close(c *fiber.Ctx, status, notes string) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}

	var n notificationModel.Notification
	if err := nc.DB.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusNotFound, "Notification not found"))
		}
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	if notificationModel.IsTerminal(n.Status) {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Notification is already resolved or dismissed"))
	}

	nowTime := time.Now()
	n.Status = status
	n.ResolvedBy = &account.ID
	n.ResolvedAt = &nowTime
	if notes != "" {
		n.ResolutionNotes = &notes
	}

	if err := nc.DB.Save(&n).Error; err != nil {
		logger.Error("Failed to close notification", err)
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to update notification"))
	}
	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusOK, "Notification updated", n))
}

// Resolve closes an alert with optional notes.
func (nc *NotificationController) Resolve(c *fiber.Ctx) error {
	var req notificationTypes.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	return nc.close(c, notificationModel.StatusResolved, req.Notes)
}

// Dismiss closes an alert without action; a default reason is recorded
// when none is given.
func (nc *NotificationController) Dismiss(c *fiber.Ctx) error {
	var req notificationTypes.DismissRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}

	reason := req.Reason
	if reason == "" {
		reason = "Dismissed by admin"
	}
	return nc.close(c, notificationModel.StatusDismissed, "Dismissed: "+reason)
}

// BulkResolve resolves a set of open alerts in one query.
func (nc *NotificationController) BulkResolve(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	var req notificationTypes.BulkResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, nc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	updates := map[string]interface{}{
		"status":      notificationModel.StatusResolved,
		"resolved_by": account.ID,
		"resolved_at": time.Now(),
	}
	if req.Notes != "" {
		updates["resolution_notes"] = req.Notes
	}

	result := nc.DB.Model(&notificationModel.Notification{}).
		Where("id IN ? AND status IN ?", req.IDs,
			[]string{notificationModel.StatusPending, notificationModel.StatusInProgress}).
		Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to bulk resolve notifications", result.Error)
		return utils.Respond(c, nc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to resolve notifications"))
	}

	return utils.Respond(c, nc.Logger, types.Ok(fiber.StatusOK,
		fmt.Sprintf("%d notifications resolved", result.RowsAffected), nil))
}
