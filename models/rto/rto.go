package rto

import "time"

// RTODetail is a returned-to-origin stock row ingested from an admin CSV
// upload. BatchID groups the rows of one upload.
type RTODetail struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID     string `gorm:"type:varchar(64);not null;index" json:"batch_id"`
	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	VariantSku  string `gorm:"type:varchar(255);not null" json:"variant_sku"`
	Size        string `gorm:"type:varchar(50)" json:"size"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	Location    string `gorm:"type:varchar(255)" json:"location"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
