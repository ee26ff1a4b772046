package settlement

import "time"

// Transaction is an append-only ledger entry written as a side effect of
// settlement approval, inside the same database transaction as the
// settlement update. Rows are never updated or deleted.
type Transaction struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference    string  `gorm:"type:varchar(64);not null;unique" json:"reference"`
	SettlementID uint    `gorm:"not null;index" json:"settlement_id"`
	VendorID     uint    `gorm:"not null;index" json:"vendor_id"`
	Amount       float64 `gorm:"not null" json:"amount"`

	// External transaction id supplied by the approving admin.
	TransactionID string `gorm:"type:varchar(255);not null" json:"transaction_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
