package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dairymanager/dairy-api/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateProductInput holds the fields of a new catalogue product
type CreateProductInput struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
	Unit  string  `json:"unit"`
}

// ProductService manages the tenant's catalogue
type ProductService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductService creates a product service
func NewProductService(db *gorm.DB, log *zap.Logger) *ProductService {
	return &ProductService{db: db, log: log}
}

// List returns the active catalogue
func (s *ProductService) List(ctx context.Context, scope models.TenantScope) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Scopes(scope.Tenant).
		Where("active = ?", true).
		Order("created_at, code").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create adds a product to the catalogue
func (s *ProductService) Create(ctx context.Context, scope models.TenantScope, in CreateProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.Unit == "" {
		in.Unit = "Unit"
	}

	product := models.Product{
		ID:       uuid.NewString(),
		TenantID: scope.TenantID,
		Name:     in.Name,
		Price:    in.Price,
		Unit:     in.Unit,
		Active:   true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := nextCode(tx, &models.Product{}, scope.TenantID, productCodePrefix, 0)
		if err != nil {
			return err
		}
		product.Code = code
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("Product created", zap.String("product_id", product.ID), zap.String("code", product.Code))
	return &product, nil
}

// UpdatePrice changes a product's list price. Existing orders keep the price they were saved with.
func (s *ProductService) UpdatePrice(ctx context.Context, scope models.TenantScope, id string, price float64) (*models.Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	product, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("price", price).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	product.Price = price

	s.log.Info("Product price updated", zap.String("product_id", id), zap.Float64("price", price))
	return product, nil
}

// Deactivate hides a product from the catalogue. Orders and rates that name it stay valid.
func (s *ProductService) Deactivate(ctx context.Context, scope models.TenantScope, id string) error {
	product, err := s.find(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	s.log.Info("Product deactivated", zap.String("product_id", id))
	return nil
}

func (s *ProductService) find(ctx context.Context, scope models.TenantScope, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Scopes(scope.Tenant).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}
