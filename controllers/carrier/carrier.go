package carrier

import (
	"errors"
	"strings"

	"fulfillment-ops/logger"
	carrierService "fulfillment-ops/services/carrier"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	carrierTypes "fulfillment-ops/types/carrier"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CarrierController exposes the per-store carrier priority ledger.
type CarrierController struct {
	Service *carrierService.Service
	Logger  *logger.AsyncLogger
}

func NewCarrierController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *CarrierController {
	return &CarrierController{Service: carrierService.NewService(db), Logger: asyncLogger}
}

// Index lists a store's carriers in priority order.
func (cc *CarrierController) Index(c *fiber.Ctx) error {
	store := c.Query("account_code")
	if store == "" {
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, "account_code is required"))
	}

	carriers, err := cc.Service.List(store)
	if err != nil {
		logger.Error("Failed to list carriers", err)
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to list carriers"))
	}
	return utils.Respond(c, cc.Logger, types.Ok(fiber.StatusOK, "Carriers retrieved", carriers))
}

// Move swaps a carrier with its neighbour; boundary moves are no-ops.
func (cc *CarrierController) Move(c *fiber.Ctx) error {
	var req carrierTypes.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, cc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	carriers, err := cc.Service.Move(req.CarrierID, req.AccountCode, req.Direction)
	if err != nil {
		if errors.Is(err, carrierService.ErrNotFound) {
			return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusNotFound, "Carrier not found"))
		}
		if errors.Is(err, carrierService.ErrInvalidDirection) {
			return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, err.Error()))
		}
		logger.Error("Failed to move carrier", err)
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to move carrier"))
	}

	return utils.Respond(c, cc.Logger, types.Ok(fiber.StatusOK, "Carrier priority updated", carriers))
}

// BulkUpload replaces carrier priorities from a CSV file. The upload must
// cover every carrier currently registered for each referenced store.
func (cc *CarrierController) BulkUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, "No CSV file provided"))
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, "Only CSV files are allowed"))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Failed to open uploaded CSV", err)
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to process uploaded file"))
	}
	defer src.Close()

	written, err := cc.Service.ReplaceFromCSV(src)
	if err != nil {
		// Validation problems in the upload surface as 400 with the
		// offending detail; anything else is a server fault.
		var uploadErr *carrierService.UploadError
		if errors.As(err, &uploadErr) {
			return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusBadRequest, uploadErr.Error()))
		}
		logger.Error("Carrier CSV upload failed", err)
		return utils.Respond(c, cc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to replace carrier priorities"))
	}

	logger.Success("Carrier priorities replaced from CSV upload")
	return utils.Respond(c, cc.Logger, types.Ok(fiber.StatusOK, "Carrier priorities updated",
		fiber.Map{"carriers_written": written}))
}
