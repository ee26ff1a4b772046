package database

import (
	"fmt"
	"os"

	"fulfillment-ops/logger"
	"fulfillment-ops/models/carrier"
	log_model "fulfillment-ops/models/log"
	"fulfillment-ops/models/notification"
	"fulfillment-ops/models/order"
	"fulfillment-ops/models/product"
	"fulfillment-ops/models/rto"
	"fulfillment-ops/models/settlement"
	"fulfillment-ops/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(buildDSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

func buildDSN() string {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSL") // "disable", "require", etc.

	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, dbUser, password, database, sslmode)
}

// autoMigrate runs auto migration for all models in dependency stages.
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&product.Product{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models referencing stage 1
	stage2Models := []interface{}{
		&order.Order{},
		&carrier.Carrier{},
		&settlement.Settlement{},
		&settlement.Transaction{},
		&notification.Notification{},
		&rto.RTODetail{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Logging
	if err := DB.AutoMigrate(&log_model.RequestLog{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &log_model.RequestLog{}, err)
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_users_email", "CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)"},
		{"idx_users_role", "CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)"},
		{"idx_users_warehouse_id", "CREATE INDEX IF NOT EXISTS idx_users_warehouse_id ON users(warehouse_id)"},
		{"idx_orders_vendor_status", "CREATE INDEX IF NOT EXISTS idx_orders_vendor_status ON orders(vendor_id, status)"},
		{"idx_orders_account_code", "CREATE INDEX IF NOT EXISTS idx_orders_account_code ON orders(account_code)"},
		{"idx_carriers_store_priority", "CREATE INDEX IF NOT EXISTS idx_carriers_store_priority ON carriers(account_code, priority)"},
		{"idx_settlements_vendor_status", "CREATE INDEX IF NOT EXISTS idx_settlements_vendor_status ON settlements(vendor_id, status)"},
		{"idx_notifications_status_severity", "CREATE INDEX IF NOT EXISTS idx_notifications_status_severity ON notifications(status, severity)"},
		{"idx_request_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_request_logs_created_at ON request_logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := DB.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// Ping checks the underlying connection. On failure it attempts one
// reconnect before reporting the error, so a transient drop recovers
// without failing the request.
func Ping() error {
	if DB == nil {
		return reconnect()
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return reconnect()
	}
	if err := sqlDB.Ping(); err != nil {
		return reconnect()
	}
	return nil
}

func reconnect() error {
	db, err := gorm.Open(postgres.Open(buildDSN()), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = db
	logger.Success("Database connection re-established")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
