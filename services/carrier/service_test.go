package carrier

import (
	"fmt"
	"strings"
	"testing"

	carrierModel "fulfillment-ops/models/carrier"
	"fulfillment-ops/models/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&carrierModel.Carrier{}, &order.Order{}))
	return db
}

func seedCarriers(t *testing.T, db *gorm.DB, store string, ids ...string) {
	t.Helper()
	for i, id := range ids {
		require.NoError(t, db.Create(&carrierModel.Carrier{
			CarrierID:   id,
			AccountCode: store,
			CarrierName: strings.ToUpper(id),
			Status:      carrierModel.StatusActive,
			Priority:    i + 1,
			WeightInKg:  5,
		}).Error)
	}
}

func priorities(t *testing.T, db *gorm.DB, store string) []string {
	t.Helper()
	var carriers []carrierModel.Carrier
	require.NoError(t, db.Where("account_code = ?", store).
		Order("priority ASC").Find(&carriers).Error)
	out := make([]string, 0, len(carriers))
	for _, c := range carriers {
		out = append(out, c.CarrierID)
	}
	return out
}

func TestMove(t *testing.T) {
	t.Run("UpSwapsWithPredecessor", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery", "ekart")

		list, err := svc.Move("delhivery", "store-a", DirectionUp)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"delhivery", "bluedart", "ekart"}, priorities(t, db, "store-a"))
	})

	t.Run("DownThenUpRestoresOrder", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery", "ekart")

		_, err := svc.Move("delhivery", "store-a", DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, []string{"bluedart", "ekart", "delhivery"}, priorities(t, db, "store-a"))

		_, err = svc.Move("delhivery", "store-a", DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, []string{"bluedart", "delhivery", "ekart"}, priorities(t, db, "store-a"))
	})

	t.Run("BoundaryIsNoOp", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery")

		list, err := svc.Move("bluedart", "store-a", DirectionUp)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, []string{"bluedart", "delhivery"}, priorities(t, db, "store-a"))

		_, err = svc.Move("delhivery", "store-a", DirectionDown)
		require.NoError(t, err)
		assert.Equal(t, []string{"bluedart", "delhivery"}, priorities(t, db, "store-a"))
	})

	t.Run("ScopedToStore", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery")
		seedCarriers(t, db, "store-b", "bluedart", "delhivery")

		_, err := svc.Move("delhivery", "store-a", DirectionUp)
		require.NoError(t, err)
		assert.Equal(t, []string{"delhivery", "bluedart"}, priorities(t, db, "store-a"))
		assert.Equal(t, []string{"bluedart", "delhivery"}, priorities(t, db, "store-b"))
	})

	t.Run("UnknownCarrier", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart")

		_, err := svc.Move("nope", "store-a", DirectionUp)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidDirection", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		_, err := svc.Move("bluedart", "store-a", "sideways")
		assert.ErrorIs(t, err, ErrInvalidDirection)
	})
}

const csvHeader = "carrier_id,carrier_name,status,priority,weight_in_kg,account_code\n"

func TestReplaceFromCSV(t *testing.T) {
	t.Run("FullReplacePerStore", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery")

		body := csvHeader +
			"bluedart,BlueDart,active,2,10,store-a\n" +
			"delhivery,Delhivery,inactive,1,8,store-a\n"
		n, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"delhivery", "bluedart"}, priorities(t, db, "store-a"))
	})

	t.Run("UnknownStoreRejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		body := csvHeader + "bluedart,BlueDart,active,1,10,never-seen\n"
		_, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown store: never-seen")

		// Rejections are typed so the controller can answer 400 instead of
		// treating them as storage faults.
		var uploadErr *UploadError
		assert.ErrorAs(t, err, &uploadErr)
	})

	t.Run("StoreKnownThroughOrders", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		require.NoError(t, db.Create(&order.Order{
			UniqueID: "u1", OrderID: "o1", Status: order.StatusUnclaimed.String(),
			AccountCode: "store-orders-only",
		}).Error)

		body := csvHeader + "bluedart,BlueDart,active,1,10,store-orders-only\n"
		n, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("DuplicatePriorityRejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery")

		body := csvHeader +
			"bluedart,BlueDart,active,1,10,store-a\n" +
			"delhivery,Delhivery,active,1,8,store-a\n"
		_, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate priority 1")
	})

	t.Run("MissingRegisteredCarrierRejected", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart", "delhivery", "ekart")

		body := csvHeader + "bluedart,BlueDart,active,1,10,store-a\n"
		_, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing registered carriers: delhivery, ekart")

		// Rejected upload leaves the ledger untouched.
		assert.Equal(t, []string{"bluedart", "delhivery", "ekart"}, priorities(t, db, "store-a"))
	})

	t.Run("MissingColumns", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		body := "carrier_id,carrier_name,priority\nbluedart,BlueDart,1\n"
		_, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required columns: status, weight_in_kg, account_code")

		var uploadErr *UploadError
		assert.ErrorAs(t, err, &uploadErr)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)
		seedCarriers(t, db, "store-a", "bluedart")

		body := csvHeader + "bluedart,BlueDart,paused,1,10,store-a\n"
		_, err := svc.ReplaceFromCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status")
	})

	t.Run("EmptyBody", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		_, err := svc.ReplaceFromCSV(strings.NewReader(csvHeader))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})
}
