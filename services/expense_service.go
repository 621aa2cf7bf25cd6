package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateExpenseInput holds the fields of a new expense
type CreateExpenseInput struct {
	Title      string        `json:"title" binding:"required"`
	Amount     float64       `json:"amount" binding:"gt=0"`
	Category   string        `json:"category"`
	Date       timeutil.Date `json:"date"`
	EmployeeID string        `json:"employeeId"`
}

// ExpenseFilter narrows an expense listing. A date range applies only when both ends are set.
type ExpenseFilter struct {
	Start      timeutil.Date
	End        timeutil.Date
	EmployeeID string
}

// ExpenseService records business costs
type ExpenseService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewExpenseService creates an expense service
func NewExpenseService(db *gorm.DB, log *zap.Logger) *ExpenseService {
	return &ExpenseService{db: db, log: log}
}

// Create records an expense
func (s *ExpenseService) Create(ctx context.Context, scope models.TenantScope, in CreateExpenseInput) (*models.Expense, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	expense := models.Expense{
		ID:         uuid.NewString(),
		TenantID:   scope.TenantID,
		Title:      in.Title,
		Amount:     in.Amount,
		Category:   in.Category,
		Date:       in.Date,
		EmployeeID: in.EmployeeID,
	}
	if err := s.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.log.Info("Expense recorded", zap.String("expense_id", expense.ID), zap.Float64("amount", expense.Amount))
	return &expense, nil
}

// List returns matching expenses, newest first
func (s *ExpenseService) List(ctx context.Context, scope models.TenantScope, f ExpenseFilter) ([]models.Expense, error) {
	q := s.db.WithContext(ctx).Scopes(scope.Tenant)
	if !f.Start.IsZero() && !f.End.IsZero() {
		q = q.Where("date >= ? AND date <= ?", f.Start, f.End)
	}
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}

	var expenses []models.Expense
	if err := q.Order("date DESC, created_at DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}
