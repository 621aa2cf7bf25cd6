package services

import (
	"fmt"

	"gorm.io/gorm"
)

// Per-tenant code prefixes and the number the first code is offset from
const (
	customerCodePrefix = "WL"
	customerCodeBase   = 1000
	employeeCodePrefix = "E"
	employeeCodeBase   = 100
	productCodePrefix  = "p"
)

// nextCode returns the next sequential code for model within the tenant, such as WL1001.
// It scans the highest existing suffix so deleting a row never hands out a code twice.
func nextCode(tx *gorm.DB, model interface{}, tenantID uint, prefix string, base int) (string, error) {
	var highest int
	err := tx.Model(model).
		Where("tenant_id = ? AND code LIKE ?", tenantID, prefix+"_%").
		Select(fmt.Sprintf("COALESCE(MAX(CAST(SUBSTR(code, %d) AS INTEGER)), 0)", len(prefix)+1)).
		Row().Scan(&highest)
	if err != nil {
		return "", fmt.Errorf("failed to allocate code: %w", err)
	}
	if highest < base {
		highest = base
	}
	return fmt.Sprintf("%s%d", prefix, highest+1), nil
}
