package settlement

import "time"

// Settlement statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Payment statuses, set only on approval
const (
	PaymentSettledFully     = "settled_fully"
	PaymentSettledPartially = "settled_partially"
)

// Settlement is a vendor payout request against the accrued handover
// balance. Amount is snapshotted at request time; AmountPaid is set on
// approval and must never exceed Amount. Approved and rejected are
// terminal.
type Settlement struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	VendorID uint    `gorm:"not null;index" json:"vendor_id"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Status   string  `gorm:"type:varchar(50);not null;default:pending;index" json:"status"`

	PaymentStatus *string `gorm:"type:varchar(50)" json:"payment_status,omitempty"`
	AmountPaid    float64 `gorm:"not null;default:0" json:"amount_paid"`
	TransactionID *string `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	PaymentProof  *string `gorm:"type:varchar(512)" json:"payment_proof,omitempty"`

	UpiID string `gorm:"type:varchar(255);not null" json:"upi_id"`

	// Denormalized list of the handover orders that backed the snapshot.
	OrderIDs       string `gorm:"type:text" json:"order_ids"`
	NumberOfOrders int    `gorm:"not null;default:0" json:"number_of_orders"`

	Reason     *string    `gorm:"type:text" json:"reason,omitempty"`
	ReviewedBy *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPending reports whether the settlement can still be approved or
// rejected.
func (s *Settlement) IsPending() bool {
	return s.Status == StatusPending
}
