package models

import (
	"time"

	"github.com/dairymanager/dairy-api/timeutil"
)

// Order statuses. A draft has no effect on dues; a finalized order's total is carried in dues.
const (
	OrderDraft     = "draft"
	OrderFinalized = "finalized"
)

// Order is one customer's delivery for one calendar date
type Order struct {
	ID           string        `gorm:"primaryKey;size:64" json:"id"` // always server-generated
	TenantID     uint          `gorm:"not null;index:idx_orders_tenant_date;uniqueIndex:idx_orders_tenant_customer_date;index:idx_orders_tenant_client" json:"-"`
	ClientID     string        `gorm:"size:64;index:idx_orders_tenant_client" json:"clientId,omitempty"` // id the app assigned offline
	CustomerID   string        `gorm:"size:64;not null;uniqueIndex:idx_orders_tenant_customer_date" json:"customerId"`
	CustomerName string        `json:"customerName"`
	Date         timeutil.Date `gorm:"not null;index:idx_orders_tenant_date;uniqueIndex:idx_orders_tenant_customer_date" json:"date"`
	Status       string        `gorm:"size:20;not null;default:'draft'" json:"status"` // draft, finalized
	Total        float64       `gorm:"not null;default:0" json:"total"`
	Items        LineItems     `json:"items"`
	Version      int           `gorm:"not null;default:1" json:"version"` // optimistic lock
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsFinalized reports whether the order's total is applied to dues
func (o Order) IsFinalized() bool {
	return o.Status == OrderFinalized
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	return s == OrderDraft || s == OrderFinalized
}
