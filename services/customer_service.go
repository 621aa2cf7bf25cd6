package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dairymanager/dairy-api/metrics"
	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateCustomerInput holds the fields of a new customer. Dues is the opening balance.
type CreateCustomerInput struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Address string  `json:"address"`
	Dues    float64 `json:"dues"`
}

// UpdateCustomerInput holds the editable fields of a customer. A nil Dues leaves dues alone.
type UpdateCustomerInput struct {
	Name    string   `json:"name" binding:"required"`
	Phone   string   `json:"phone" binding:"required"`
	Address string   `json:"address"`
	Status  string   `json:"status"`
	Dues    *float64 `json:"dues"`
}

// CustomerService manages customer accounts
type CustomerService struct {
	db    *gorm.DB
	clock *timeutil.Clock
	log   *zap.Logger
}

// NewCustomerService creates a customer service
func NewCustomerService(db *gorm.DB, clock *timeutil.Clock, log *zap.Logger) *CustomerService {
	return &CustomerService{db: db, clock: clock, log: log}
}

// List returns every customer of the tenant with their custom rates
func (s *CustomerService) List(ctx context.Context, scope models.TenantScope) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Scopes(scope.Tenant).
		Preload("Rates").
		Order("code").
		Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Get returns one customer with their custom rates
func (s *CustomerService) Get(ctx context.Context, scope models.TenantScope, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := findCustomer(s.db.WithContext(ctx).Preload("Rates"), scope, id, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create adds a customer. A non-zero opening balance is written to the ledger.
func (s *CustomerService) Create(ctx context.Context, scope models.TenantScope, in CreateCustomerInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}

	customer := models.Customer{
		ID:       uuid.NewString(),
		TenantID: scope.TenantID,
		Name:     in.Name,
		Phone:    in.Phone,
		Address:  in.Address,
		Status:   models.CustomerActive,
		Rates:    []models.CustomerRate{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPhoneFree(tx, scope, in.Phone, ""); err != nil {
			return err
		}
		code, err := nextCode(tx, &models.Customer{}, scope.TenantID, customerCodePrefix, customerCodeBase)
		if err != nil {
			return err
		}
		customer.Code = code

		if err := tx.Create(&customer).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePhone
			}
			return fmt.Errorf("failed to create customer: %w", err)
		}

		if in.Dues != 0 {
			if _, err := applyDelta(tx, scope, customer.ID, in.Dues, models.EntryOpeningBalance, "", s.clock.Today()); err != nil {
				return err
			}
			customer.Dues = in.Dues
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Dues != 0 {
		metrics.LedgerDeltas.WithLabelValues(models.EntryOpeningBalance).Inc()
	}
	s.log.Info("Customer created", zap.String("customer_id", customer.ID), zap.String("code", customer.Code))
	return &customer, nil
}

// Update edits a customer's details. Setting Dues needs an admin and is recorded as an adjustment.
func (s *CustomerService) Update(ctx context.Context, scope models.TenantScope, id string, in UpdateCustomerInput) (*models.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}
	if in.Status != "" && in.Status != models.CustomerActive && in.Status != models.CustomerInactive {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.Dues != nil && !scope.IsAdmin() {
		return nil, fmt.Errorf("%w: only an admin can override dues", ErrForbidden)
	}

	adjusted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := findCustomer(tx, scope, id, &customer); err != nil {
			return err
		}
		if err := checkPhoneFree(tx, scope, in.Phone, id); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":    in.Name,
			"phone":   in.Phone,
			"address": in.Address,
		}
		if in.Status != "" {
			updates["status"] = in.Status
		}
		if err := tx.Model(&customer).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePhone
			}
			return fmt.Errorf("failed to update customer: %w", err)
		}

		if in.Dues != nil {
			var err error
			if adjusted, err = adjustDues(tx, scope, id, *in.Dues, s.clock.Today()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if adjusted {
		metrics.LedgerDeltas.WithLabelValues(models.EntryAdjustment).Inc()
	}
	s.log.Info("Customer updated", zap.String("customer_id", id), zap.Bool("dues_adjusted", adjusted))
	return s.Get(ctx, scope, id)
}

// Delete removes a customer that has never been billed or paid
func (s *CustomerService) Delete(ctx context.Context, scope models.TenantScope, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := findCustomer(tx, scope, id, &customer); err != nil {
			return err
		}

		var orders, payments int64
		if err := tx.Model(&models.Order{}).Scopes(scope.Tenant).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Payment{}).Scopes(scope.Tenant).Where("customer_id = ?", id).Count(&payments).Error; err != nil {
			return err
		}
		if orders > 0 || payments > 0 {
			return fmt.Errorf("%w: %d orders, %d payments", ErrCustomerHasHistory, orders, payments)
		}

		if err := tx.Where("tenant_id = ? AND customer_id = ?", scope.TenantID, id).Delete(&models.CustomerRate{}).Error; err != nil {
			return fmt.Errorf("failed to delete rates: %w", err)
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("Customer deleted", zap.String("customer_id", id))
	return nil
}

// checkPhoneFree fails with ErrDuplicatePhone when another customer of the tenant has phone
func checkPhoneFree(tx *gorm.DB, scope models.TenantScope, phone, exceptID string) error {
	var other models.Customer
	q := tx.Scopes(scope.Tenant).Where("phone = ?", phone)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.First(&other).Error
	if err == nil {
		return ErrDuplicatePhone
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check phone: %w", err)
}
