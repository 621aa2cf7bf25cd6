package models

import (
	"time"

	"github.com/dairymanager/dairy-api/timeutil"
)

// Payment is money collected from a customer. Recording it lowers dues immediately,
// whatever its date.
type Payment struct {
	ID             string        `gorm:"primaryKey;size:64" json:"id"`
	TenantID       uint          `gorm:"not null;index:idx_payments_tenant_date;uniqueIndex:idx_payments_tenant_idempotency" json:"-"`
	CustomerID     string        `gorm:"size:64;not null;index" json:"customerId"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Date           timeutil.Date `gorm:"not null;index:idx_payments_tenant_date" json:"date"`
	CollectedBy    string        `json:"collectedBy"`
	Note           string        `json:"note"`
	IdempotencyKey *string       `gorm:"size:128;uniqueIndex:idx_payments_tenant_idempotency" json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
