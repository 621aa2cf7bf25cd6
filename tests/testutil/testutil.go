package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/dairymanager/dairy-api/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment fails the test unless GO_ENV=test, so a suite can never run
// against a development or production database by accident
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test. Current GO_ENV=%q.", env)
	}
}

// NewTestDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection because every new SQLite memory connection
// would otherwise see an empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

var fixtureSeq atomic.Int64

// CreateTenant inserts a tenant and returns an admin scope for it
func CreateTenant(t *testing.T, db *gorm.DB, slug string) models.TenantScope {
	t.Helper()

	tenant := models.Tenant{Slug: slug, Name: slug + " dairy"}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}
	user := models.User{TenantID: tenant.ID, Username: "admin", PasswordHash: "x", Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return models.TenantScope{TenantID: tenant.ID, UserID: user.ID, Role: models.RoleAdmin}
}

// StaffScope returns a staff scope within the admin scope's tenant
func StaffScope(scope models.TenantScope) models.TenantScope {
	return models.TenantScope{TenantID: scope.TenantID, UserID: scope.UserID + 1000, Role: models.RoleStaff}
}

// CreateCustomer inserts an active customer with the given live dues
func CreateCustomer(t *testing.T, db *gorm.DB, scope models.TenantScope, name string, dues float64) models.Customer {
	t.Helper()

	n := fixtureSeq.Add(1)
	customer := models.Customer{
		ID:       uuid.NewString(),
		TenantID: scope.TenantID,
		Code:     fmt.Sprintf("WL%d", 5000+n),
		Name:     name,
		Phone:    fmt.Sprintf("9%09d", n),
		Dues:     dues,
		Status:   models.CustomerActive,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to create customer: %v", err)
	}
	return customer
}

// CreateProduct inserts an active product at the given list price
func CreateProduct(t *testing.T, db *gorm.DB, scope models.TenantScope, name string, price float64) models.Product {
	t.Helper()

	n := fixtureSeq.Add(1)
	product := models.Product{
		ID:       uuid.NewString(),
		TenantID: scope.TenantID,
		Code:     fmt.Sprintf("t%d", n),
		Name:     name,
		Price:    price,
		Unit:     "Pkt",
		Active:   true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return product
}

// Dues reads a customer's stored dues
func Dues(t *testing.T, db *gorm.DB, customerID string) float64 {
	t.Helper()

	var customer models.Customer
	if err := db.Where("id = ?", customerID).First(&customer).Error; err != nil {
		t.Fatalf("Failed to load customer: %v", err)
	}
	return customer.Dues
}
