package models

import "time"

// Roles a tenant user may hold
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a person who signs in to a tenant (owner or delivery staff)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     uint      `gorm:"not null;uniqueIndex:idx_users_tenant_username" json:"tenantId"`
	Username     string    `gorm:"not null;size:64;uniqueIndex:idx_users_tenant_username" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'staff'" json:"role"` // "admin" or "staff"
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user manages the tenant
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
