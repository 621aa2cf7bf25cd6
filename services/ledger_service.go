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

// OrderInput is one order of a bulk save. A nil Total is computed from the items.
// ID is the client's own reference; orders are keyed by customer and date.
type OrderInput struct {
	ID           string           `json:"id"`
	CustomerID   string           `json:"customerId" binding:"required"`
	CustomerName string           `json:"customerName"`
	Status       string           `json:"status" binding:"required"`
	Total        *float64         `json:"total"`
	Items        models.LineItems `json:"items"`
}

// SaveOrdersResult reports what a bulk save did
type SaveOrdersResult struct {
	Processed int            `json:"processed"`
	Skipped   []string       `json:"skipped"` // customer IDs that do not exist
	Orders    []models.Order `json:"orders"`
	Message   string         `json:"message"`
}

// FinalizeResult reports what a bulk finalize did
type FinalizeResult struct {
	Date      timeutil.Date `json:"date"`
	Finalized int           `json:"finalized"`
	Skipped   []string      `json:"skipped"` // order IDs whose customer no longer exists
	Amount    float64       `json:"amount"`  // total added to dues
}

// PaymentInput is a payment to record
type PaymentInput struct {
	CustomerID     string        `json:"customerId" binding:"required"`
	Amount         float64       `json:"amount" binding:"required,gt=0"`
	Date           timeutil.Date `json:"date"`
	CollectedBy    string        `json:"collectedBy"`
	Note           string        `json:"note"`
	IdempotencyKey string        `json:"-"`
}

// PaymentResult is the recorded payment and the customer's dues after it
type PaymentResult struct {
	Payment  models.Payment `json:"payment"`
	NewDues  float64        `json:"new_dues"`
	Replayed bool           `json:"replayed"` // true when the idempotency key matched an earlier payment
	Message  string         `json:"message"`
}

// Reconciliation compares a customer's materialized dues with the ledger that produced it
type Reconciliation struct {
	CustomerID     string  `json:"customerId"`
	Dues           float64 `json:"dues"`
	LedgerTotal    float64 `json:"ledgerTotal"`
	FinalizedTotal float64 `json:"finalizedTotal"`
	PaymentsTotal  float64 `json:"paymentsTotal"`
	Drift          float64 `json:"drift"` // dues minus ledger total; zero when consistent
}

// LedgerService owns every mutation of customer dues
type LedgerService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewLedgerService creates a ledger service
func NewLedgerService(db *gorm.DB, log *zap.Logger) *LedgerService {
	return &LedgerService{db: db, log: log}
}

// applyDelta adds delta to a customer's dues in the database and appends the matching
// ledger entry. The increment happens in SQL so concurrent writers never lose an update.
// It reports false, and writes nothing, when the customer does not exist.
func applyDelta(tx *gorm.DB, scope models.TenantScope, customerID string, delta float64, kind, referenceID string, date timeutil.Date) (bool, error) {
	res := tx.Model(&models.Customer{}).
		Where("tenant_id = ? AND id = ?", scope.TenantID, customerID).
		UpdateColumn("dues", gorm.Expr("dues + ?", delta))
	if res.Error != nil {
		return false, fmt.Errorf("failed to update dues: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	entry := models.LedgerEntry{
		TenantID:    scope.TenantID,
		CustomerID:  customerID,
		Kind:        kind,
		Amount:      delta,
		ReferenceID: referenceID,
		Date:        date,
		CreatedBy:   scope.UserID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return false, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return true, nil
}

// RecordPayment stores a payment and lowers the customer's dues by its amount.
// The payment date has no bearing on the ledger effect.
func (s *LedgerService) RecordPayment(ctx context.Context, scope models.TenantScope, in PaymentInput) (*PaymentResult, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	result := &PaymentResult{Message: "Payment recorded"}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IdempotencyKey != "" {
			var earlier models.Payment
			err := tx.Scopes(scope.Tenant).Where("idempotency_key = ?", in.IdempotencyKey).First(&earlier).Error
			if err == nil {
				result.Payment = earlier
				result.Replayed = true
				return loadDues(tx, scope, earlier.CustomerID, &result.NewDues)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		payment := models.Payment{
			ID:          uuid.NewString(),
			TenantID:    scope.TenantID,
			CustomerID:  in.CustomerID,
			Amount:      in.Amount,
			Date:        in.Date,
			CollectedBy: in.CollectedBy,
			Note:        in.Note,
		}
		if in.IdempotencyKey != "" {
			key := in.IdempotencyKey
			payment.IdempotencyKey = &key
		}

		applied, err := applyDelta(tx, scope, in.CustomerID, -in.Amount, models.EntryPayment, payment.ID, in.Date)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("%w: %s", ErrCustomerNotFound, in.CustomerID)
		}
		if err := tx.Create(&payment).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: payment with this idempotency key is in flight", ErrConcurrentModification)
			}
			return fmt.Errorf("failed to create payment: %w", err)
		}

		result.Payment = payment
		return loadDues(tx, scope, in.CustomerID, &result.NewDues)
	})
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		s.log.Info("Payment replayed", zap.String("payment_id", result.Payment.ID))
	} else {
		metrics.LedgerDeltas.WithLabelValues(models.EntryPayment).Inc()
		s.log.Info("Payment recorded",
			zap.String("payment_id", result.Payment.ID),
			zap.String("customer_id", in.CustomerID),
			zap.Float64("amount", in.Amount),
		)
	}
	return result, nil
}

// SaveOrders upserts the orders of one date in a single transaction.
//
// For each order: a previously finalized version is first reversed out of dues, the
// stored content is replaced, and the new total is applied if the new status is
// finalized. Orders for unknown customers are skipped.
func (s *LedgerService) SaveOrders(ctx context.Context, scope models.TenantScope, date timeutil.Date, inputs []OrderInput) (*SaveOrdersResult, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	for i, in := range inputs {
		if in.CustomerID == "" {
			return nil, fmt.Errorf("%w: order %d has no customerId", ErrValidation, i)
		}
		if !models.ValidOrderStatus(in.Status) {
			return nil, fmt.Errorf("%w: order %d has unknown status %q", ErrValidation, i, in.Status)
		}
		for _, li := range in.Items {
			if li.Quantity < 0 || li.Price < 0 {
				return nil, fmt.Errorf("%w: order %d has a negative quantity or price", ErrValidation, i)
			}
		}
	}

	result := &SaveOrdersResult{Skipped: []string{}, Orders: []models.Order{}}
	var applied, reversed int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			var customer models.Customer
			err := tx.Scopes(scope.Tenant).Where("id = ?", in.CustomerID).First(&customer).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Skipped = append(result.Skipped, in.CustomerID)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to load customer: %w", err)
			}

			items := in.Items
			if items == nil {
				items = models.LineItems{}
			}
			total := items.Total()
			if in.Total != nil {
				total = *in.Total
			}
			name := in.CustomerName
			if name == "" {
				name = customer.Name
			}

			var existing models.Order
			err = tx.Scopes(scope.Tenant).
				Where("customer_id = ? AND date = ?", in.CustomerID, date).
				First(&existing).Error
			found := err == nil
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load order: %w", err)
			}

			var order models.Order
			if found {
				if existing.IsFinalized() {
					if _, err := applyDelta(tx, scope, in.CustomerID, -existing.Total, models.EntryOrderReversed, existing.ID, date); err != nil {
						return err
					}
					reversed++
				}

				updates := map[string]interface{}{
					"customer_name": name,
					"status":        in.Status,
					"total":         total,
					"items":         items,
					"version":       existing.Version + 1,
				}
				clientID := existing.ClientID
				if in.ID != "" {
					clientID = in.ID
					updates["client_id"] = in.ID
				}
				res := tx.Model(&models.Order{}).
					Where("id = ? AND version = ?", existing.ID, existing.Version).
					Updates(updates)
				if res.Error != nil {
					return fmt.Errorf("failed to update order: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("%w: order %s", ErrConcurrentModification, existing.ID)
				}

				order = existing
				order.ClientID = clientID
				order.CustomerName = name
				order.Status = in.Status
				order.Total = total
				order.Items = items
				order.Version = existing.Version + 1
			} else {
				order = models.Order{
					ID:           uuid.NewString(),
					ClientID:     in.ID,
					TenantID:     scope.TenantID,
					CustomerID:   in.CustomerID,
					CustomerName: name,
					Date:         date,
					Status:       in.Status,
					Total:        total,
					Items:        items,
					Version:      1,
				}
				if err := tx.Create(&order).Error; err != nil {
					// only the (tenant, customer, date) key can collide: another request created it first
					if isUniqueViolation(err) {
						return fmt.Errorf("%w: order for %s on %s", ErrConcurrentModification, in.CustomerID, date)
					}
					return fmt.Errorf("failed to create order: %w", err)
				}
			}

			if order.IsFinalized() {
				if _, err := applyDelta(tx, scope, in.CustomerID, total, models.EntryOrderApplied, order.ID, date); err != nil {
					return err
				}
				applied++
			}

			result.Orders = append(result.Orders, order)
			result.Processed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerDeltas.WithLabelValues(models.EntryOrderApplied).Add(float64(applied))
	metrics.LedgerDeltas.WithLabelValues(models.EntryOrderReversed).Add(float64(reversed))
	if len(result.Skipped) > 0 {
		metrics.OrdersSkipped.Add(float64(len(result.Skipped)))
		s.log.Warn("Skipped orders for unknown customers",
			zap.String("date", date.String()),
			zap.Strings("customer_ids", result.Skipped),
		)
	}

	result.Message = fmt.Sprintf("Processed %d orders. Ledgers updated.", result.Processed)
	s.log.Info("Orders saved",
		zap.String("date", date.String()),
		zap.Int("processed", result.Processed),
		zap.Int("applied", applied),
		zap.Int("reversed", reversed),
	)
	return result, nil
}

// FinalizeDate commits every not-yet-finalized order of the date to the ledger.
// Orders already finalized are left alone, so running it twice changes nothing.
func (s *LedgerService) FinalizeDate(ctx context.Context, scope models.TenantScope, date timeutil.Date) (*FinalizeResult, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	result := &FinalizeResult{Date: date, Skipped: []string{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []models.Order
		if err := tx.Scopes(scope.Tenant).
			Where("date = ? AND status <> ?", date, models.OrderFinalized).
			Order("id").
			Find(&pending).Error; err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}

		for _, order := range pending {
			var count int64
			if err := tx.Model(&models.Customer{}).
				Where("tenant_id = ? AND id = ?", scope.TenantID, order.CustomerID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				result.Skipped = append(result.Skipped, order.ID)
				continue
			}

			// The status guard makes a concurrent finalize of the same order a no-op here
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status <> ?", order.ID, models.OrderFinalized).
				Updates(map[string]interface{}{
					"status":  models.OrderFinalized,
					"version": gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return fmt.Errorf("failed to finalize order: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}

			ok, err := applyDelta(tx, scope, order.CustomerID, order.Total, models.EntryOrderApplied, order.ID, date)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrCustomerNotFound, order.CustomerID)
			}

			result.Finalized++
			result.Amount += order.Total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerDeltas.WithLabelValues(models.EntryOrderApplied).Add(float64(result.Finalized))
	s.log.Info("Orders finalized",
		zap.String("date", date.String()),
		zap.Int("finalized", result.Finalized),
		zap.Float64("amount", result.Amount),
	)
	return result, nil
}

// AdjustDues sets a customer's dues to an explicit value, recording the difference
// as an adjustment entry
func (s *LedgerService) AdjustDues(ctx context.Context, scope models.TenantScope, customerID string, dues float64, date timeutil.Date) (*models.Customer, error) {
	var customer models.Customer
	adjusted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if adjusted, err = adjustDues(tx, scope, customerID, dues, date); err != nil {
			return err
		}
		return findCustomer(tx, scope, customerID, &customer)
	})
	if err != nil {
		return nil, err
	}

	if adjusted {
		metrics.LedgerDeltas.WithLabelValues(models.EntryAdjustment).Inc()
		s.log.Info("Dues adjusted", zap.String("customer_id", customerID), zap.Float64("dues", customer.Dues))
	}
	return &customer, nil
}

// adjustDues moves dues to the given value inside tx. It reports false when dues
// already had that value.
func adjustDues(tx *gorm.DB, scope models.TenantScope, customerID string, dues float64, date timeutil.Date) (bool, error) {
	var current float64
	if err := loadDues(tx, scope, customerID, &current); err != nil {
		return false, err
	}

	delta := dues - current
	if delta == 0 {
		return false, nil
	}
	if _, err := applyDelta(tx, scope, customerID, delta, models.EntryAdjustment, "", date); err != nil {
		return false, err
	}
	return true, nil
}

// Entries lists a customer's ledger, newest first
func (s *LedgerService) Entries(ctx context.Context, scope models.TenantScope, customerID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	var customer models.Customer
	if err := findCustomer(s.db.WithContext(ctx), scope, customerID, &customer); err != nil {
		return nil, err
	}

	var entries []models.LedgerEntry
	err := s.db.WithContext(ctx).Scopes(scope.Tenant).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return entries, nil
}

// Reconcile recomputes a customer's balance from the ledger and from the raw orders and payments
func (s *LedgerService) Reconcile(ctx context.Context, scope models.TenantScope, customerID string) (*Reconciliation, error) {
	db := s.db.WithContext(ctx)

	var customer models.Customer
	if err := findCustomer(db, scope, customerID, &customer); err != nil {
		return nil, err
	}

	rec := &Reconciliation{CustomerID: customerID, Dues: customer.Dues}
	var err error
	if rec.LedgerTotal, err = sumColumn(db.Model(&models.LedgerEntry{}).Scopes(scope.Tenant).
		Where("customer_id = ?", customerID), "amount"); err != nil {
		return nil, err
	}
	if rec.FinalizedTotal, err = sumColumn(db.Model(&models.Order{}).Scopes(scope.Tenant).
		Where("customer_id = ? AND status = ?", customerID, models.OrderFinalized), "total"); err != nil {
		return nil, err
	}
	if rec.PaymentsTotal, err = sumColumn(db.Model(&models.Payment{}).Scopes(scope.Tenant).
		Where("customer_id = ?", customerID), "amount"); err != nil {
		return nil, err
	}
	rec.Drift = rec.Dues - rec.LedgerTotal
	return rec, nil
}

// findCustomer loads a tenant's customer or returns ErrCustomerNotFound
func findCustomer(db *gorm.DB, scope models.TenantScope, customerID string, customer *models.Customer) error {
	err := db.Scopes(scope.Tenant).Where("id = ?", customerID).First(customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrCustomerNotFound, customerID)
	}
	if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}
	return nil
}

func loadDues(tx *gorm.DB, scope models.TenantScope, customerID string, dues *float64) error {
	var customer models.Customer
	if err := findCustomer(tx, scope, customerID, &customer); err != nil {
		return err
	}
	*dues = customer.Dues
	return nil
}

// sumColumn returns SUM(column) of the query, zero when no rows match
func sumColumn(q *gorm.DB, column string) (float64, error) {
	var total float64
	if err := q.Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).Row().Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s: %w", column, err)
	}
	return total, nil
}

// isUniqueViolation recognises duplicate-key errors from both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
