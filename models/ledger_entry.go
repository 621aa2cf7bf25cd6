package models

import (
	"time"

	"github.com/dairymanager/dairy-api/timeutil"
)

// Ledger entry kinds
const (
	EntryOrderApplied   = "order_applied"
	EntryOrderReversed  = "order_reversed"
	EntryPayment        = "payment"
	EntryOpeningBalance = "opening_balance"
	EntryAdjustment     = "adjustment"
)

// LedgerEntry records one delta applied to a customer's dues.
// Amount is signed exactly as it was added to dues.
type LedgerEntry struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	TenantID    uint          `gorm:"not null;index:idx_ledger_tenant_customer" json:"-"`
	CustomerID  string        `gorm:"size:64;not null;index:idx_ledger_tenant_customer" json:"customerId"`
	Kind        string        `gorm:"size:32;not null" json:"kind"`
	Amount      float64       `gorm:"not null" json:"amount"`
	ReferenceID string        `gorm:"size:64;index" json:"referenceId"` // order or payment ID
	Date        timeutil.Date `json:"date"`                             // business date of the referenced event
	CreatedBy   uint          `json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// TableName specifies the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// All lists every model for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Tenant{},
		&User{},
		&Customer{},
		&CustomerRate{},
		&Product{},
		&Employee{},
		&Order{},
		&Payment{},
		&Expense{},
		&LedgerEntry{},
	}
}
