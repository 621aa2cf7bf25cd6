package models

import (
	"time"

	"github.com/dairymanager/dairy-api/timeutil"
)

// Expense is a business cost. It never touches customer dues.
type Expense struct {
	ID         string        `gorm:"primaryKey;size:64" json:"id"`
	TenantID   uint          `gorm:"not null;index:idx_expenses_tenant_date" json:"-"`
	Title      string        `gorm:"not null" json:"title"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Category   string        `gorm:"size:50" json:"category"`
	Date       timeutil.Date `gorm:"not null;index:idx_expenses_tenant_date" json:"date"`
	EmployeeID string        `gorm:"size:64;index" json:"employeeId"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// TableName specifies the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
