package scheduler

import (
	"fmt"
	"time"

	"fulfillment-ops/logger"
	"fulfillment-ops/models/carrier"
	log_model "fulfillment-ops/models/log"
	"fulfillment-ops/models/notification"
	"fulfillment-ops/models/order"
	"fulfillment-ops/services/session"

	"gorm.io/gorm"
)

// Background jobs run as fire-and-forget goroutines sharing the request
// connection pool. There is no cancellation: once a run starts it goes to
// completion or logs its error.
const (
	staleUnclaimedAfter  = 48 * time.Hour
	cleanupRetentionDays = 90
)

type Scheduler struct {
	DB *gorm.DB
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{DB: db}
}

// Start launches all periodic jobs.
func (s *Scheduler) Start() {
	go s.runEvery(time.Hour, "stale unclaimed scan", s.StaleUnclaimedScan)
	go s.runEvery(6*time.Hour, "carrier priority audit", s.CarrierPriorityAudit)
	go s.runEvery(24*time.Hour, "vendor session sweep", s.VendorSessionSweep)
	go s.runEvery(7*24*time.Hour, "cleanup", s.Cleanup)
	logger.Success("Background jobs scheduled")
}

func (s *Scheduler) runEvery(interval time.Duration, name string, job func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := job(); err != nil {
			logger.Error("Scheduled job failed: "+name, err)
		}
	}
}

// StaleUnclaimedScan raises a high-severity notification for every order
// sitting unclaimed beyond the threshold, once per order.
func (s *Scheduler) StaleUnclaimedScan() error {
	cutoff := time.Now().Add(-staleUnclaimedAfter)

	var stale []order.Order
	err := s.DB.Where("status = ? AND created_at < ?", order.StatusUnclaimed.String(), cutoff).
		Find(&stale).Error
	if err != nil {
		return err
	}

	for _, o := range stale {
		var count int64
		err := s.DB.Model(&notification.Notification{}).
			Where("type = ? AND order_id = ?", "stale_unclaimed_order", o.UniqueID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		orderID := o.UniqueID
		n := notification.Notification{
			Type:     "stale_unclaimed_order",
			Title:    "Order unclaimed for over 48 hours",
			Message:  fmt.Sprintf("Order %s (store %s) has been unclaimed since %s", o.UniqueID, o.AccountCode, o.CreatedAt.Format(time.RFC3339)),
			Severity: notification.SeverityHigh,
			Status:   notification.StatusPending,
			OrderID:  &orderID,
			Metadata: notification.JSONMap{"account_code": o.AccountCode, "value": o.Value},
		}
		if err := s.DB.Create(&n).Error; err != nil {
			return err
		}
	}
	return nil
}

// CarrierPriorityAudit flags stores whose priority ledger has duplicates.
// A clean ledger has exactly one carrier per priority value.
func (s *Scheduler) CarrierPriorityAudit() error {
	type dup struct {
		AccountCode string
		Priority    int
		Cnt         int
	}
	var dups []dup
	err := s.DB.Model(&carrier.Carrier{}).
		Select("account_code, priority, COUNT(*) AS cnt").
		Group("account_code, priority").
		Having("COUNT(*) > 1").
		Scan(&dups).Error
	if err != nil {
		return err
	}

	for _, d := range dups {
		n := notification.Notification{
			Type:     "carrier_priority_conflict",
			Title:    "Duplicate carrier priority detected",
			Message:  fmt.Sprintf("Store %s has %d carriers at priority %d", d.AccountCode, d.Cnt, d.Priority),
			Severity: notification.SeverityCritical,
			Status:   notification.StatusPending,
			Metadata: notification.JSONMap{"account_code": d.AccountCode, "priority": d.Priority},
		}
		if err := s.DB.Create(&n).Error; err != nil {
			return err
		}
	}
	return nil
}

// VendorSessionSweep refreshes every active vendor's session token pair.
func (s *Scheduler) VendorSessionSweep() error {
	session.EnsureAllVendorSessions(s.DB)
	return nil
}

// Cleanup purges terminal notifications and request logs past retention.
func (s *Scheduler) Cleanup() error {
	cutoff := time.Now().AddDate(0, 0, -cleanupRetentionDays)

	err := s.DB.Where("status IN ? AND updated_at < ?",
		[]string{notification.StatusResolved, notification.StatusDismissed}, cutoff).
		Delete(&notification.Notification{}).Error
	if err != nil {
		return err
	}

	return s.DB.Where("created_at < ?", cutoff).Delete(&log_model.RequestLog{}).Error
}
