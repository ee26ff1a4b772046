package carrier

import "time"

// Carrier statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// Carrier is a per-store shipping carrier entry. The same carrier_id may
// appear under several stores; (carrier_id, account_code) is the composite
// key. Priority is unique within a store, ascending = preferred.
type Carrier struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CarrierID   string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_carrier_store" json:"carrier_id"`
	AccountCode string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_carrier_store" json:"account_code"`
	CarrierName string  `gorm:"type:varchar(255);not null" json:"carrier_name"`
	Status      string  `gorm:"type:varchar(50);not null;default:active" json:"status"`
	Priority    int     `gorm:"not null" json:"priority"`
	WeightInKg  float64 `gorm:"not null;default:0" json:"weight_in_kg"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsValidStatus reports whether s is one of the carrier statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}
