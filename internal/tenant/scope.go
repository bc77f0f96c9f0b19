package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single tenant. Every repository query on a
// tenant-owned table goes through this.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
