package inventory

import (
	"fmt"
	"strings"
	"testing"

	"fulfillment-ops/models/order"
	productModel "fulfillment-ops/models/product"

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
	require.NoError(t, db.AutoMigrate(&order.Order{}, &productModel.Product{}))
	return db
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "TSHIRT-RED-M", NormalizeSKU("tshirt--red__m"))
	assert.Equal(t, "TSHIRT-RED", NormalizeSKU("  TSHIRT  RED  "))
	assert.Equal(t, "JERSEY-10", NormalizeSKU("jersey-10"))
}

func TestBaseSKU(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TSHIRT-M-1", "TSHIRT"},
		{"TSHIRT-S-1", "TSHIRT"},
		{"TSHIRT-M", "TSHIRT"},
		{"TSHIRT-1", "TSHIRT"},
		{"TSHIRT", "TSHIRT"},
		{"JERSEY-HOME-XXL-2", "JERSEY-HOME"},
		{"jersey-home-xxl-2", "JERSEY-HOME"},
		{"HOODIE-BLACK", "HOODIE-BLACK"}, // BLACK is not a size token
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BaseSKU(tc.in), "input %q", tc.in)
	}
}

func TestSizeFromCode(t *testing.T) {
	assert.Equal(t, "M", SizeFromCode("TSHIRT-M-1"))
	assert.Equal(t, "XXL", SizeFromCode("JERSEY-HOME-XXL-2"))
	assert.Equal(t, "S", SizeFromCode("TSHIRT-S"))
	assert.Equal(t, "", SizeFromCode("TSHIRT"))
}

func TestDetectPrefix(t *testing.T) {
	assert.Equal(t, "Player", DetectPrefix("Player Edition Jersey"))
	assert.Equal(t, "Fan", DetectPrefix("Fan Edition Jersey"))
	// player wins when both words appear
	assert.Equal(t, "Player", DetectPrefix("Fan favourite player jersey"))
	assert.Equal(t, "", DetectPrefix("Plain Hoodie"))
}

func TestFormatSizeQuantity(t *testing.T) {
	t.Run("VocabularyOrder", func(t *testing.T) {
		got := FormatSizeQuantity([]sizeCount{
			{size: "M", qty: 3, seen: 0},
			{size: "S", qty: 5, seen: 1},
			{size: "XXL", qty: 1, seen: 2},
		})
		assert.Equal(t, "S-5, M-3, XXL-1", got)
	})

	t.Run("UnknownSizesAfterKnownInFirstSeenOrder", func(t *testing.T) {
		got := FormatSizeQuantity([]sizeCount{
			{size: "NA", qty: 2, seen: 0},
			{size: "M", qty: 3, seen: 1},
			{size: "38", qty: 1, seen: 2},
		})
		assert.Equal(t, "M-3, NA-2, 38-1", got)
	})
}

func seedUnclaimed(t *testing.T, db *gorm.DB, uniqueID, code, name, size string, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&order.Order{
		UniqueID:    uniqueID,
		OrderID:     "ORD-" + uniqueID,
		Status:      order.StatusUnclaimed.String(),
		ProductCode: code,
		ProductName: name,
		Size:        size,
		Quantity:    qty,
		AccountCode: "store-a",
	}).Error)
}

func TestAggregate(t *testing.T) {
	t.Run("GroupsByBaseSKU", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		seedUnclaimed(t, db, "u1", "TSHIRT-M-1", "Basic Tee", "M", 3)
		seedUnclaimed(t, db, "u2", "TSHIRT-S-1", "Basic Tee", "S", 5)
		seedUnclaimed(t, db, "u3", "HOODIE-L-1", "Cozy Hoodie", "L", 2)

		total, items, err := svc.Aggregate()
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 2)

		bySku := make(map[string]AggregatedProduct, len(items))
		for _, item := range items {
			bySku[item.BaseSku] = item
		}
		assert.Equal(t, "S-5, M-3", bySku["TSHIRT"].SizeQuantity)
		assert.Equal(t, "L-2", bySku["HOODIE"].SizeQuantity)
	})

	t.Run("IgnoresClaimedOrders", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		seedUnclaimed(t, db, "u1", "TSHIRT-M-1", "Basic Tee", "M", 3)
		vid := uint(7)
		require.NoError(t, db.Create(&order.Order{
			UniqueID: "u2", OrderID: "ORD-u2", Status: order.StatusClaimed.String(),
			VendorID: &vid, ProductCode: "TSHIRT-M-1", Size: "M", Quantity: 100,
		}).Error)

		_, items, err := svc.Aggregate()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "M-3", items[0].SizeQuantity)
	})

	t.Run("MatchesCatalogWithVariantSuffix", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		require.NoError(t, db.Create(&productModel.Product{
			SkuID: "TSHIRT-1", Name: "Player Edition Tee", Image: "https://cdn.example/tee.png",
		}).Error)
		seedUnclaimed(t, db, "u1", "TSHIRT-M-1", "", "M", 3)

		_, items, err := svc.Aggregate()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Player Edition Tee", items[0].ProductName)
		assert.Equal(t, "https://cdn.example/tee.png", items[0].ImageURL)
		assert.Equal(t, "Player", items[0].Prefix)
	})

	t.Run("SizeFallsBackToProductCode", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		seedUnclaimed(t, db, "u1", "TSHIRT-XL-1", "Basic Tee", "", 4)

		_, items, err := svc.Aggregate()
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "XL-4", items[0].SizeQuantity)
	})

	t.Run("SortedByDisplayNameCaseInsensitive", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		seedUnclaimed(t, db, "u1", "ZIPPER-M-1", "zipper jacket", "M", 1)
		seedUnclaimed(t, db, "u2", "APRON-M-1", "Apron", "M", 1)

		_, items, err := svc.Aggregate()
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "APRON", items[0].BaseSku)
		assert.Equal(t, "ZIPPER", items[1].BaseSku)
	})
}

func TestParseRTOCSV(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		body := "Product_Name,Variant_Sku,Size,Quantity,Location\n" +
			"Basic Tee,TSHIRT-M-1,M,3,Rack A\n" +
			"Cozy Hoodie,HOODIE-L-1,L,1,Rack B\n"
		rows, err := ParseRTOCSV(strings.NewReader(body))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "TSHIRT-M-1", rows[0].VariantSku)
		assert.Equal(t, 3, rows[0].Quantity)
		assert.Equal(t, "Rack B", rows[1].Location)
		// Both rows carry the same fresh batch id.
		assert.NotEmpty(t, rows[0].BatchID)
		assert.Equal(t, rows[0].BatchID, rows[1].BatchID)
	})

	t.Run("HeaderMatchIsFuzzy", func(t *testing.T) {
		body := "product_name (text),variant_sku,size,Total Quantity,location\n" +
			"Basic Tee,TSHIRT-M-1,M,3,Rack A\n"
		rows, err := ParseRTOCSV(strings.NewReader(body))
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("MissingQuantityColumn", func(t *testing.T) {
		body := "Product_Name,Variant_Sku,Size,Location\nBasic Tee,TSHIRT-M-1,M,Rack A\n"
		_, err := ParseRTOCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Missing required columns: Quantity")
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		body := "Product_Name,Variant_Sku,Size,Quantity,Location\nBasic Tee,TSHIRT-M-1,M,lots,Rack A\n"
		_, err := ParseRTOCSV(strings.NewReader(body))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid quantity")
	})
}
