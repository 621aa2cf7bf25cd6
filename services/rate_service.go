package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Rate update scopes
const (
	RateScopeFuture = "future"
	RateScopeToday  = "today"
)

// RateUpdateResult reports whether today's draft was re-priced
type RateUpdateResult struct {
	Message      string             `json:"message"`
	DraftUpdated bool               `json:"draft_updated"`
	Rates        map[string]float64 `json:"rates"`
	Order        *models.Order      `json:"order,omitempty"`
}

// RateService manages customer-specific pricing
type RateService struct {
	db    *gorm.DB
	clock *timeutil.Clock
	log   *zap.Logger
}

// NewRateService creates a rate service
func NewRateService(db *gorm.DB, clock *timeutil.Clock, log *zap.Logger) *RateService {
	return &RateService{db: db, clock: clock, log: log}
}

// UpdateRates replaces a customer's custom rates. With scope "today" the customer's draft
// order for the business day is re-priced; a finalized order is never touched.
func (s *RateService) UpdateRates(ctx context.Context, scope models.TenantScope, customerID string, rates map[string]float64, rateScope string) (*RateUpdateResult, error) {
	if rateScope == "" {
		rateScope = RateScopeFuture
	}
	if rateScope != RateScopeFuture && rateScope != RateScopeToday {
		return nil, fmt.Errorf("%w: unknown scope %q", ErrValidation, rateScope)
	}
	for productID, rate := range rates {
		if productID == "" || rate < 0 {
			return nil, fmt.Errorf("%w: rates need a product ID and a non-negative rate", ErrValidation)
		}
	}
	if rates == nil {
		rates = map[string]float64{}
	}

	result := &RateUpdateResult{Message: "Rates updated", Rates: rates}
	today := s.clock.Today()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := findCustomer(tx, scope, customerID, &customer); err != nil {
			return err
		}

		if err := tx.Where("tenant_id = ? AND customer_id = ?", scope.TenantID, customerID).
			Delete(&models.CustomerRate{}).Error; err != nil {
			return fmt.Errorf("failed to clear rates: %w", err)
		}
		for productID, rate := range rates {
			row := models.CustomerRate{TenantID: scope.TenantID, CustomerID: customerID, ProductID: productID, Rate: rate}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save rate: %w", err)
			}
		}

		if rateScope != RateScopeToday {
			return nil
		}

		var draft models.Order
		err := tx.Scopes(scope.Tenant).
			Where("customer_id = ? AND date = ? AND status = ?", customerID, today, models.OrderDraft).
			First(&draft).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load draft: %w", err)
		}

		items, err := s.resolveItems(tx, scope, draft.Items)
		if err != nil {
			return err
		}
		repriced, total := RepriceItems(items, rates)

		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ? AND status = ?", draft.ID, draft.Version, models.OrderDraft).
			Updates(map[string]interface{}{
				"items":   repriced,
				"total":   total,
				"version": draft.Version + 1,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to re-price draft: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s", ErrConcurrentModification, draft.ID)
		}

		draft.Items = repriced
		draft.Total = total
		draft.Version++
		result.DraftUpdated = true
		result.Order = &draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Customer rates updated",
		zap.String("customer_id", customerID),
		zap.Int("rates", len(rates)),
		zap.Bool("draft_updated", result.DraftUpdated),
	)
	return result, nil
}

// PricedItem is a line item paired with the catalogue product it resolved to, if any
type PricedItem struct {
	Item    models.LineItem
	Product *models.Product
}

// resolveItems looks each item's product up by ID, then by name for items saved without one
func (s *RateService) resolveItems(tx *gorm.DB, scope models.TenantScope, items models.LineItems) ([]PricedItem, error) {
	out := make([]PricedItem, 0, len(items))
	for _, item := range items {
		var product models.Product
		found := false
		if item.ProductID != "" {
			err := tx.Scopes(scope.Tenant).Where("id = ?", item.ProductID).First(&product).Error
			if err == nil {
				found = true
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load product: %w", err)
			}
		}
		if !found && item.Name != "" {
			err := tx.Scopes(scope.Tenant).Where("name = ?", item.Name).Order("created_at").First(&product).Error
			if err == nil {
				found = true
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load product: %w", err)
			}
		}

		priced := PricedItem{Item: item}
		if found {
			p := product
			priced.Product = &p
		}
		out = append(out, priced)
	}
	return out, nil
}

// RepriceItems sets each resolved item's price to the customer's rate for the product, or the
// product's list price when there is no rate. Unresolved items keep their stored price.
// Resolved legacy items get their product ID filled in.
func RepriceItems(items []PricedItem, rates map[string]float64) (models.LineItems, float64) {
	out := make(models.LineItems, 0, len(items))
	for _, pi := range items {
		item := pi.Item
		if pi.Product != nil {
			item.ProductID = pi.Product.ID
			item.Price = pi.Product.Price
			if rate, ok := rates[pi.Product.ID]; ok {
				item.Price = rate
			}
		}
		out = append(out, item)
	}
	return out, out.Total()
}
