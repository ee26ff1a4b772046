package inventory

import (
	"fulfillment-ops/logger"
	inventoryService "fulfillment-ops/services/inventory"
	"fulfillment-ops/types"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InventoryController exposes the unclaimed-stock aggregation views.
type InventoryController struct {
	DB      *gorm.DB
	Service *inventoryService.Service
	Logger  *logger.AsyncLogger
}

func NewInventoryController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *InventoryController {
	return &InventoryController{DB: db, Service: inventoryService.NewService(db), Logger: asyncLogger}
}

// Aggregate groups unclaimed line items by base SKU and returns the
// per-size summary for the admin dashboard.
func (ic *InventoryController) Aggregate(c *fiber.Ctx) error {
	total, items, err := ic.Service.Aggregate()
	if err != nil {
		logger.Error("Failed to aggregate inventory", err)
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to aggregate inventory"))
	}

	return utils.Respond(c, ic.Logger, types.Ok(fiber.StatusOK, "Inventory aggregated", fiber.Map{
		"totalProducts": total,
		"products":      items,
	}))
}

// RTOUpload ingests a returned-to-origin stock CSV.
func (ic *InventoryController) RTOUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusBadRequest, "No CSV file provided"))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Failed to open uploaded CSV", err)
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to process uploaded file"))
	}
	defer src.Close()

	rows, err := inventoryService.ParseRTOCSV(src)
	if err != nil {
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
	}
	if len(rows) == 0 {
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusBadRequest, "CSV contains no data rows"))
	}

	if err := ic.DB.Create(&rows).Error; err != nil {
		logger.Error("Failed to store RTO details", err)
		return utils.Respond(c, ic.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to store RTO details"))
	}

	logger.Success("RTO details uploaded")
	return utils.Respond(c, ic.Logger, types.Ok(fiber.StatusCreated, "RTO details uploaded", fiber.Map{
		"batch_id": rows[0].BatchID,
		"rows":     len(rows),
	}))
}
