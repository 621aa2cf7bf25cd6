package models

import "time"

// Product is an item on the delivery catalogue
type Product struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	TenantID  uint      `gorm:"not null;index;uniqueIndex:idx_products_tenant_code" json:"-"`
	Code      string    `gorm:"size:32;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	Name      string    `gorm:"not null;index" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Unit      string    `gorm:"size:20" json:"unit"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
