package order

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment-ops/constants"
	"fulfillment-ops/logger"
	"fulfillment-ops/middleware"
	orderModel "fulfillment-ops/models/order"
	userModel "fulfillment-ops/models/user"
	"fulfillment-ops/services/validation"
	"fulfillment-ops/types"
	orderTypes "fulfillment-ops/types/order"
	"fulfillment-ops/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrderController handles order claiming and lifecycle updates.
type OrderController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewOrderController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *OrderController {
	return &OrderController{DB: db, Logger: asyncLogger}
}

// vendorByWarehouse resolves the vendor account behind a warehouse id.
func (oc *OrderController) vendorByWarehouse(tx *gorm.DB, warehouseID string) (*userModel.User, error) {
	var vendor userModel.User
	err := tx.Where("warehouse_id = ? AND role = ?", warehouseID, constants.RoleVendor).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Unclaimed lists orders waiting to be claimed, optionally per store.
func (oc *OrderController) Unclaimed(c *fiber.Ctx) error {
	q := oc.DB.Where("status = ?", orderModel.StatusUnclaimed.String())
	if store := c.Query("account_code"); store != "" {
		q = q.Where("account_code = ?", store)
	}

	var orders []orderModel.Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		logger.Error("Failed to list unclaimed orders", err)
		return utils.Respond(c, oc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to list orders"))
	}
	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK, "Orders retrieved", orders))
}

// MyOrders lists the calling vendor's orders grouped by order_id so
// multi-item orders render as one card.
func (oc *OrderController) MyOrders(c *fiber.Ctx) error {
	account, ok := middleware.CurrentUser(c)
	if !ok {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusUnauthorized, "Authentication required"))
	}

	q := oc.DB.Where("vendor_id = ?", account.ID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []orderModel.Order
	if err := q.Order("order_id, unique_id").Find(&orders).Error; err != nil {
		logger.Error("Failed to list vendor orders", err)
		return utils.Respond(c, oc.Logger, types.Fail(
			fiber.StatusInternalServerError, "Failed to list orders"))
	}

	grouped := make(map[string][]orderModel.Order)
	keys := make([]string, 0)
	for _, o := range orders {
		if _, seen := grouped[o.OrderID]; !seen {
			keys = append(keys, o.OrderID)
		}
		grouped[o.OrderID] = append(grouped[o.OrderID], o)
	}

	out := make([]fiber.Map, 0, len(keys))
	for _, k := range keys {
		out = append(out, fiber.Map{"order_id": k, "items": grouped[k]})
	}
	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK, "Orders retrieved", out))
}

// Assign claims an order for the vendor behind the warehouse id.
// Reassigning an already-claimed order simply overwrites the vendor.
func (oc *OrderController) Assign(c *fiber.Ctx) error {
	var req orderTypes.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, oc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var updated orderModel.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		vendor, err := oc.vendorByWarehouse(tx, req.WarehouseID)
		if err != nil {
			return err
		}

		var ord orderModel.Order
		if err := tx.First(&ord, "unique_id = ?", req.UniqueID).Error; err != nil {
			return err
		}

		ord.VendorName = &vendor.Name
		ord.VendorID = &vendor.ID
		ord.Status = orderModel.StatusClaimed.String()
		if err := tx.Save(&ord).Error; err != nil {
			return err
		}
		updated = ord
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusNotFound, "Order or vendor not found"))
		}
		logger.Error("Failed to assign order", err)
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to assign order"))
	}

	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK, "Order assigned successfully", updated))
}

// Unassign releases an order back to the unclaimed pool.
func (oc *OrderController) Unassign(c *fiber.Ctx) error {
	var req orderTypes.UnassignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, oc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var updated orderModel.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var ord orderModel.Order
		if err := tx.First(&ord, "unique_id = ?", req.UniqueID).Error; err != nil {
			return err
		}
		return releaseOrder(tx, &ord, &updated)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusNotFound, "Order not found"))
		}
		logger.Error("Failed to unassign order", err)
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to unassign order"))
	}

	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK, "Order unassigned successfully", updated))
}

func releaseOrder(tx *gorm.DB, ord *orderModel.Order, out *orderModel.Order) error {
	err := tx.Model(&orderModel.Order{}).Where("unique_id = ?", ord.UniqueID).
		Updates(map[string]interface{}{
			"vendor_name": nil,
			"vendor_id":   nil,
			"status":      orderModel.StatusUnclaimed.String(),
		}).Error
	if err != nil {
		return err
	}
	ord.VendorName = nil
	ord.VendorID = nil
	ord.Status = orderModel.StatusUnclaimed.String()
	*out = *ord
	return nil
}

// findBatch loads every requested order or fails with the list of ids that
// do not exist. Bulk operations are all-or-nothing: one unknown id aborts
// the whole batch.
func findBatch(tx *gorm.DB, ids []string) ([]orderModel.Order, []string, error) {
	var orders []orderModel.Order
	if err := tx.Where("unique_id IN ?", ids).Find(&orders).Error; err != nil {
		return nil, nil, err
	}

	found := make(map[string]bool, len(orders))
	for _, o := range orders {
		found[o.UniqueID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return orders, missing, nil
}

// BulkAssign claims a set of orders for one vendor in a single transaction.
func (oc *OrderController) BulkAssign(c *fiber.Ctx) error {
	var req orderTypes.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, oc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var missingIDs []string
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		vendor, err := oc.vendorByWarehouse(tx, req.WarehouseID)
		if err != nil {
			return err
		}

		_, missing, err := findBatch(tx, req.UniqueIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			missingIDs = missing
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&orderModel.Order{}).Where("unique_id IN ?", req.UniqueIDs).
			Updates(map[string]interface{}{
				"vendor_name": vendor.Name,
				"vendor_id":   vendor.ID,
				"status":      orderModel.StatusClaimed.String(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			msg := "Vendor not found"
			if len(missingIDs) > 0 {
				msg = fmt.Sprintf("Orders not found: %s", strings.Join(missingIDs, ", "))
			}
			return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusNotFound, msg))
		}
		logger.Error("Failed to bulk assign orders", err)
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to assign orders"))
	}

	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK,
		fmt.Sprintf("%d orders assigned successfully", len(req.UniqueIDs)), nil))
}

// BulkUnassign releases a set of orders in a single transaction.
func (oc *OrderController) BulkUnassign(c *fiber.Ctx) error {
	var req orderTypes.BulkUnassignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, oc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var missingIDs []string
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		_, missing, err := findBatch(tx, req.UniqueIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			missingIDs = missing
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&orderModel.Order{}).Where("unique_id IN ?", req.UniqueIDs).
			Updates(map[string]interface{}{
				"vendor_name": nil,
				"vendor_id":   nil,
				"status":      orderModel.StatusUnclaimed.String(),
			}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusNotFound,
				fmt.Sprintf("Orders not found: %s", strings.Join(missingIDs, ", "))))
		}
		logger.Error("Failed to bulk unassign orders", err)
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to unassign orders"))
	}

	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK,
		fmt.Sprintf("%d orders unassigned successfully", len(req.UniqueIDs)), nil))
}

// UpdateStatus moves an order along the shipping vocabulary. The carrier
// vocabulary is open-ended, so unknown statuses are accepted and logged.
func (oc *OrderController) UpdateStatus(c *fiber.Ctx) error {
	var req orderTypes.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusBadRequest, "Invalid request body"))
	}
	if errs := validation.Struct(req); errs != nil {
		return utils.Respond(c, oc.Logger, types.FailWithErrors(
			fiber.StatusBadRequest, "Validation failed", errs))
	}

	var ord orderModel.Order
	if err := oc.DB.First(&ord, "unique_id = ?", req.UniqueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusNotFound, "Order not found"))
		}
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Database error"))
	}

	status := orderModel.OrderStatus(req.Status)
	if !status.IsKnown() {
		logger.Warning("Order " + req.UniqueID + " moved to unrecognized status " + req.Status)
	}

	ord.Status = req.Status
	if err := oc.DB.Save(&ord).Error; err != nil {
		logger.Error("Failed to update order status", err)
		return utils.Respond(c, oc.Logger, types.Fail(fiber.StatusInternalServerError, "Failed to update status"))
	}

	return utils.Respond(c, oc.Logger, types.Ok(fiber.StatusOK, "Order status updated", ord))
}
