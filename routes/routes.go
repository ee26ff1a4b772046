package routes

import (
	"fulfillment-ops/constants"
	"fulfillment-ops/controllers/auth"
	"fulfillment-ops/controllers/carrier"
	"fulfillment-ops/controllers/inventory"
	"fulfillment-ops/controllers/notification"
	"fulfillment-ops/controllers/order"
	"fulfillment-ops/controllers/server"
	"fulfillment-ops/controllers/settlement"
	"fulfillment-ops/controllers/user"
	"fulfillment-ops/logger"
	"fulfillment-ops/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	authController := auth.NewAuthController(db, asyncLogger)
	userController := user.NewUserController(db, asyncLogger)
	orderController := order.NewOrderController(db, asyncLogger)
	carrierController := carrier.NewCarrierController(db, asyncLogger)
	settlementController := settlement.NewSettlementController(db, asyncLogger)
	notificationController := notification.NewNotificationController(db, asyncLogger)
	inventoryController := inventory.NewInventoryController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/health", server.Health)

	api := app.Group("/api", middleware.EnsureDatabase())

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api.Post("/auth/login", middleware.LoginRateLimit(), authController.Login)

	/*=============================================================================
	| Authenticated Routes
	===============================================================================*/
	authGroup := api.Group("/auth", middleware.BasicAuth())
	authGroup.Get("/profile", authController.Profile)
	authGroup.Put("/change-password", authController.ChangePassword)

	/*=============================================================================
	| User Directory (superadmin)
	===============================================================================*/
	users := api.Group("/users", middleware.BasicAuth(),
		middleware.RequireRoles(constants.RoleSuperAdmin))
	users.Post("/", userController.Store)
	users.Get("/", userController.Index)
	users.Put("/:id", userController.Update)
	users.Put("/:id/status", userController.SetStatus)
	users.Delete("/:id", userController.Destroy)

	/*=============================================================================
	| Orders
	===============================================================================*/
	orders := api.Group("/orders", middleware.BasicAuth())
	orders.Get("/unclaimed", middleware.RequireRoles(
		constants.RoleSuperAdmin, constants.RoleAdmin), orderController.Unclaimed)
	orders.Get("/mine", middleware.RequireRoles(
		constants.RoleVendor), orderController.MyOrders)
	orders.Post("/assign", middleware.RequireRoles(
		constants.RoleAdmin, constants.RoleVendor), orderController.Assign)
	orders.Post("/unassign", middleware.RequireRoles(
		constants.RoleAdmin, constants.RoleVendor), orderController.Unassign)
	orders.Post("/bulk-assign", middleware.RequireRoles(
		constants.RoleAdmin, constants.RoleVendor), orderController.BulkAssign)
	orders.Post("/bulk-unassign", middleware.RequireRoles(
		constants.RoleAdmin, constants.RoleVendor), orderController.BulkUnassign)
	orders.Put("/status", middleware.RequireRoles(
		constants.RoleAdmin, constants.RoleVendor), orderController.UpdateStatus)

	/*=============================================================================
	| Carrier Priority Ledger (admin)
	===============================================================================*/
	carriers := api.Group("/carriers", middleware.BasicAuth(),
		middleware.RequireRoles(constants.RoleSuperAdmin, constants.RoleAdmin))
	carriers.Get("/", carrierController.Index)
	carriers.Post("/move", carrierController.Move)
	carriers.Post("/bulk-upload", carrierController.BulkUpload)

	/*=============================================================================
	| Settlements
	===============================================================================*/
	settlements := api.Group("/settlements", middleware.BasicAuth())
	settlements.Post("/vendor/request", middleware.RequireRoles(
		constants.RoleVendor), settlementController.Request)
	settlements.Get("/vendor/mine", middleware.RequireRoles(
		constants.RoleVendor), settlementController.MySettlements)
	settlements.Get("/vendor/summary", middleware.RequireRoles(
		constants.RoleVendor), settlementController.Summary)
	settlements.Get("/admin", middleware.RequireRoles(
		constants.RoleAdmin), settlementController.Index)
	settlements.Post("/admin/:id/approve", middleware.RequireRoles(
		constants.RoleAdmin), settlementController.Approve)
	settlements.Post("/admin/:id/reject", middleware.RequireRoles(
		constants.RoleAdmin), settlementController.Reject)
	settlements.Get("/admin/:id/proof", middleware.RequireRoles(
		constants.RoleAdmin), settlementController.Proof)

	/*=============================================================================
	| Notifications (admin)
	===============================================================================*/
	notifications := api.Group("/notifications", middleware.BasicAuth(),
		middleware.RequireRoles(constants.RoleSuperAdmin, constants.RoleAdmin))
	notifications.Post("/", notificationController.Store)
	notifications.Get("/", notificationController.Index)
	notifications.Get("/:id", notificationController.Show)
	notifications.Put("/:id/status", notificationController.SetStatus)
	notifications.Post("/:id/resolve", notificationController.Resolve)
	notifications.Post("/:id/dismiss", notificationController.Dismiss)
	notifications.Post("/bulk-resolve", notificationController.BulkResolve)

	/*=============================================================================
	| Inventory (admin)
	===============================================================================*/
	adminInventory := api.Group("/admin/inventory", middleware.BasicAuth(),
		middleware.RequireRoles(constants.RoleAdmin))
	adminInventory.Get("/aggregate", inventoryController.Aggregate)
	adminInventory.Post("/rto-upload", inventoryController.RTOUpload)
}
