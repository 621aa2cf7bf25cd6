package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dairymanager/dairy-api/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateEmployeeInput holds the fields of a new employee
type CreateEmployeeInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// EmployeeService manages staff records
type EmployeeService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEmployeeService creates an employee service
func NewEmployeeService(db *gorm.DB, log *zap.Logger) *EmployeeService {
	return &EmployeeService{db: db, log: log}
}

// List returns the tenant's employees
func (s *EmployeeService) List(ctx context.Context, scope models.TenantScope) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Scopes(scope.Tenant).Order("code").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Create adds an employee with the next E-code
func (s *EmployeeService) Create(ctx context.Context, scope models.TenantScope, in CreateEmployeeInput) (*models.Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	employee := models.Employee{
		ID:       uuid.NewString(),
		TenantID: scope.TenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Role:     in.Role,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, &models.Employee{}, scope.TenantID, employeeCodePrefix, employeeCodeBase)
		if err != nil {
			return err
		}
		employee.Code = code
		return tx.Create(&employee).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.log.Info("Employee created", zap.String("employee_id", employee.ID), zap.String("code", employee.Code))
	return &employee, nil
}

// Delete removes an employee. Expenses charged to them keep the employee ID.
func (s *EmployeeService) Delete(ctx context.Context, scope models.TenantScope, id string) error {
	res := s.db.WithContext(ctx).Scopes(scope.Tenant).Where("id = ?", id).Delete(&models.Employee{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}

	s.log.Info("Employee deleted", zap.String("employee_id", id))
	return nil
}
