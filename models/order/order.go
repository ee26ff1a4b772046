package order

import "time"

// Order is a single shipment line item. UniqueID is the primary key;
// OrderID groups line items belonging to the same customer order. An order
// with a NULL vendor is unclaimed.
type Order struct {
	UniqueID string `gorm:"primaryKey;type:varchar(255)" json:"unique_id"`
	OrderID  string `gorm:"type:varchar(255);not null;index" json:"order_id"`
	Status   string `gorm:"type:varchar(50);not null;index" json:"status"`

	VendorName *string `gorm:"type:varchar(255)" json:"vendor_name,omitempty"`
	VendorID   *uint   `gorm:"index" json:"vendor_id,omitempty"`

	Value       float64 `gorm:"not null;default:0" json:"value"`
	Quantity    int     `gorm:"not null;default:1" json:"quantity"`
	ProductCode string  `gorm:"type:varchar(255)" json:"product_code"`
	ProductName string  `gorm:"type:varchar(255)" json:"product_name"`
	Size        string  `gorm:"type:varchar(50)" json:"size"`
	AccountCode string  `gorm:"type:varchar(100);index" json:"account_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
