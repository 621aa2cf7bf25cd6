package services

import (
	"context"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dashboard is the day summary shown on the app's home screen
type Dashboard struct {
	Date             timeutil.Date `json:"date"`
	RevenueToday     float64       `json:"revenue_today"` // drafts included
	RevenueFinalized float64       `json:"revenue_finalized"`
	RevenuePctChange float64       `json:"revenue_pct_change"`
	CollectionToday  float64       `json:"collection_today"`
	TotalDues        float64       `json:"total_dues"`      // dues at the end of the date
	OpeningBalance   float64       `json:"opening_balance"` // dues at the start of the date
	ActiveCustomers  int64         `json:"active_customers"`
}

// CustomerBalance is one customer's walk-back for a date
type CustomerBalance struct {
	CustomerID     string        `json:"customerId"`
	Date           timeutil.Date `json:"date"`
	LiveDues       float64       `json:"live_dues"`
	ClosingBalance float64       `json:"closing_balance"`
	OpeningBalance float64       `json:"opening_balance"`
	Sales          float64       `json:"sales"`
	Collection     float64       `json:"collection"`
}

// DashboardService answers historical balance questions from the live dues
type DashboardService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(db *gorm.DB, log *zap.Logger) *DashboardService {
	return &DashboardService{db: db, log: log}
}

// Dashboard computes the business-wide figures for date
func (s *DashboardService) Dashboard(ctx context.Context, scope models.TenantScope, date timeutil.Date) (*Dashboard, error) {
	var (
		figures DayFigures
		active  int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if figures, err = collectFigures(tx, scope, "", date); err != nil {
			return err
		}
		return tx.Model(&models.Customer{}).Scopes(scope.Tenant).
			Where("status = ?", models.CustomerActive).
			Count(&active).Error
	})
	if err != nil {
		return nil, err
	}

	snap := WalkBack(figures)
	return &Dashboard{
		Date:             date,
		RevenueToday:     snap.RevenueGross,
		RevenueFinalized: snap.RevenueFinalized,
		RevenuePctChange: round(snap.PctChange, 1),
		CollectionToday:  snap.Collection,
		TotalDues:        round(snap.ClosingBalance, 2),
		OpeningBalance:   round(snap.OpeningBalance, 2),
		ActiveCustomers:  active,
	}, nil
}

// CustomerBalanceAt runs the walk-back for a single customer
func (s *DashboardService) CustomerBalanceAt(ctx context.Context, scope models.TenantScope, customerID string, date timeutil.Date) (*CustomerBalance, error) {
	var figures DayFigures
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := findCustomer(tx, scope, customerID, &customer); err != nil {
			return err
		}
		var err error
		figures, err = collectFigures(tx, scope, customerID, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap := WalkBack(figures)
	return &CustomerBalance{
		CustomerID:     customerID,
		Date:           date,
		LiveDues:       figures.LiveTotalDues,
		ClosingBalance: round(snap.ClosingBalance, 2),
		OpeningBalance: round(snap.OpeningBalance, 2),
		Sales:          snap.RevenueFinalized,
		Collection:     snap.Collection,
	}, nil
}

// collectFigures gathers the walk-back aggregates, for one customer when customerID is set
func collectFigures(tx *gorm.DB, scope models.TenantScope, customerID string, date timeutil.Date) (DayFigures, error) {
	forCustomer := func(db *gorm.DB) *gorm.DB {
		db = db.Where("tenant_id = ?", scope.TenantID)
		if customerID != "" {
			db = db.Where("customer_id = ?", customerID)
		}
		return db
	}
	orders := func() *gorm.DB { return tx.Model(&models.Order{}).Scopes(forCustomer) }
	payments := func() *gorm.DB { return tx.Model(&models.Payment{}).Scopes(forCustomer) }

	var (
		f   DayFigures
		err error
	)

	live := tx.Model(&models.Customer{}).Scopes(scope.Tenant)
	if customerID != "" {
		live = live.Where("id = ?", customerID)
	}
	if f.LiveTotalDues, err = sumColumn(live, "dues"); err != nil {
		return f, err
	}
	if f.FutureSales, err = sumColumn(orders().Where("date > ? AND status = ?", date, models.OrderFinalized), "total"); err != nil {
		return f, err
	}
	if f.FutureCollections, err = sumColumn(payments().Where("date > ?", date), "amount"); err != nil {
		return f, err
	}
	if f.RevenueFinalized, err = sumColumn(orders().Where("date = ? AND status = ?", date, models.OrderFinalized), "total"); err != nil {
		return f, err
	}
	if f.RevenueGross, err = sumColumn(orders().Where("date = ?", date), "total"); err != nil {
		return f, err
	}
	if f.Collection, err = sumColumn(payments().Where("date = ?", date), "amount"); err != nil {
		return f, err
	}
	if f.PrevRevenueFinalized, err = sumColumn(orders().Where("date = ? AND status = ?", date.AddDays(-1), models.OrderFinalized), "total"); err != nil {
		return f, err
	}
	return f, nil
}

// round rounds a money figure for display
func round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

