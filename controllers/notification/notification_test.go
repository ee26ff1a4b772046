package notification

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"fulfillment-ops/logger"
	notificationModel "fulfillment-ops/models/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&notificationModel.Notification{}))

	ctrl := NewNotificationController(db, logger.NewAsyncLogger(db))
	app := fiber.New()
	app.Get("/notifications", ctrl.Index)
	return app, db
}

func listNotifications(t *testing.T, app *fiber.App, query string) []notificationModel.Notification {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/notifications"+query, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Data []notificationModel.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope.Data
}

func TestIndexSearch(t *testing.T) {
	app, db := newTestApp(t)

	vendorID := uint(123)
	orderID := "ORD-77"
	require.NoError(t, db.Create(&notificationModel.Notification{
		Type: "stale_unclaimed_order", Title: "Order stuck",
		Message: "needs attention", Severity: notificationModel.SeverityHigh,
		Status: notificationModel.StatusPending, VendorID: &vendorID, OrderID: &orderID,
	}).Error)
	require.NoError(t, db.Create(&notificationModel.Notification{
		Type: "carrier_priority_conflict", Title: "Priority clash",
		Message: "store ledger", Severity: notificationModel.SeverityCritical,
		Status: notificationModel.StatusPending,
	}).Error)

	t.Run("MatchesMultiDigitVendorID", func(t *testing.T) {
		got := listNotifications(t, app, "?search=123")
		require.Len(t, got, 1)
		require.NotNil(t, got[0].VendorID)
		assert.Equal(t, vendorID, *got[0].VendorID)
	})

	t.Run("MatchesTitle", func(t *testing.T) {
		got := listNotifications(t, app, "?search=clash")
		require.Len(t, got, 1)
		assert.Equal(t, "Priority clash", got[0].Title)
	})

	t.Run("MatchesOrderIDSubstring", func(t *testing.T) {
		got := listNotifications(t, app, "?search=ORD-7")
		require.Len(t, got, 1)
		assert.Equal(t, "Order stuck", got[0].Title)
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, listNotifications(t, app, "?search=unrelated"))
	})
}

func TestIndexOrdering(t *testing.T) {
	app, db := newTestApp(t)

	rows := []notificationModel.Notification{
		{Type: "a", Title: "resolved-critical", Severity: notificationModel.SeverityCritical, Status: notificationModel.StatusResolved},
		{Type: "b", Title: "pending-low", Severity: notificationModel.SeverityLow, Status: notificationModel.StatusPending},
		{Type: "c", Title: "pending-critical", Severity: notificationModel.SeverityCritical, Status: notificationModel.StatusPending},
		{Type: "d", Title: "in-progress-high", Severity: notificationModel.SeverityHigh, Status: notificationModel.StatusInProgress},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	got := listNotifications(t, app, "")
	require.Len(t, got, 4)
	titles := make([]string, 0, len(got))
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"pending-critical", "pending-low", "in-progress-high", "resolved-critical"}, titles)
}
