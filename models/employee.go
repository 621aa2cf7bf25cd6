package models

import "time"

// Employee is delivery or collection staff that expenses can be charged to
type Employee struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	TenantID  uint      `gorm:"not null;index;uniqueIndex:idx_employees_tenant_code" json:"-"`
	Code      string    `gorm:"size:32;not null;uniqueIndex:idx_employees_tenant_code" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Role      string    `gorm:"size:50" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
