package product

import "time"

// Product is a catalog row joined to orders through best-effort SKU
// normalization (size/variant suffix stripped), not a foreign key.
type Product struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SkuID string `gorm:"type:varchar(255);not null;unique" json:"sku_id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Image string `gorm:"type:varchar(2048)" json:"image"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
