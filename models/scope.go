package models

import "gorm.io/gorm"

// TenantScope identifies who is acting and on whose books.
// Every service operation takes one explicitly; nothing reads tenant state globally.
type TenantScope struct {
	TenantID uint
	UserID   uint
	Role     string
}

// Tenant is a gorm scope restricting a query to the scope's tenant
func (s TenantScope) Tenant(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

// IsAdmin reports whether the acting user is a tenant admin
func (s TenantScope) IsAdmin() bool {
	return s.Role == RoleAdmin
}
