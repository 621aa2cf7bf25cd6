package services

import (
	"context"
	"fmt"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"gorm.io/gorm"
)

// ReportData is every order, payment and expense within an inclusive date range
type ReportData struct {
	Start    timeutil.Date    `json:"start"`
	End      timeutil.Date    `json:"end"`
	Orders   []models.Order   `json:"orders"`
	Payments []models.Payment `json:"payments"`
	Expenses []models.Expense `json:"expenses"`
}

// SyncSnapshot is the bulk payload the client app loads on start
type SyncSnapshot struct {
	Customers []models.CustomerView `json:"customers"`
	Products  []models.Product      `json:"products"`
	Employees []models.Employee     `json:"employees"`
	Payments  []models.Payment      `json:"payments"`
	Expenses  []models.Expense      `json:"expenses"`
	Orders    []models.Order        `json:"orders"`
}

const (
	syncRecentLimit = 1000
	syncOrderDays   = 365
)

// ReportService serves read-only bulk views of the books
type ReportService struct {
	db    *gorm.DB
	clock *timeutil.Clock
}

// NewReportService creates a report service
func NewReportService(db *gorm.DB, clock *timeutil.Clock) *ReportService {
	return &ReportService{db: db, clock: clock}
}

// Data returns the raw records between start and end inclusive
func (s *ReportService) Data(ctx context.Context, scope models.TenantScope, start, end timeutil.Date) (*ReportData, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates required", ErrValidation)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end is before start", ErrValidation)
	}

	report := &ReportData{
		Start:    start,
		End:      end,
		Orders:   []models.Order{},
		Payments: []models.Payment{},
		Expenses: []models.Expense{},
	}
	db := s.db.WithContext(ctx)
	inRange := func(q *gorm.DB) *gorm.DB {
		return q.Where("tenant_id = ? AND date >= ? AND date <= ?", scope.TenantID, start, end).Order("date")
	}

	if err := db.Scopes(inRange).Find(&report.Orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if err := db.Scopes(inRange).Find(&report.Payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	if err := db.Scopes(inRange).Find(&report.Expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return report, nil
}

// Snapshot returns the sync payload: the full catalogue and customer list, the latest
// payments and expenses, and the orders of the past year
func (s *ReportService) Snapshot(ctx context.Context, scope models.TenantScope) (*SyncSnapshot, error) {
	db := s.db.WithContext(ctx)
	snap := &SyncSnapshot{
		Customers: []models.CustomerView{},
		Products:  []models.Product{},
		Employees: []models.Employee{},
		Payments:  []models.Payment{},
		Expenses:  []models.Expense{},
		Orders:    []models.Order{},
	}

	var customers []models.Customer
	if err := db.Scopes(scope.Tenant).Preload("Rates").Order("code").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	for _, c := range customers {
		snap.Customers = append(snap.Customers, c.View())
	}

	if err := db.Scopes(scope.Tenant).Where("active = ?", true).Order("created_at, code").Find(&snap.Products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if err := db.Scopes(scope.Tenant).Order("code").Find(&snap.Employees).Error; err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if err := db.Scopes(scope.Tenant).Order("date DESC").Limit(syncRecentLimit).Find(&snap.Payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	if err := db.Scopes(scope.Tenant).Order("date DESC").Limit(syncRecentLimit).Find(&snap.Expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	since := s.clock.Today().AddDays(-syncOrderDays)
	if err := db.Scopes(scope.Tenant).Where("date >= ?", since).Order("date").Find(&snap.Orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return snap, nil
}

// OrdersOn returns the orders of one date
func (s *ReportService) OrdersOn(ctx context.Context, scope models.TenantScope, date timeutil.Date) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.WithContext(ctx).Scopes(scope.Tenant).
		Where("date = ?", date).
		Order("customer_name").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}
