package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dairymanager/dairy-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginResult is what a successful login hands back to the client
type LoginResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	TenantID  uint      `json:"tenantId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService signs users in and provisions tenants
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	log    *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(db *gorm.DB, tokens *TokenService, log *zap.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, log: log}
}

// Login checks a tenant user's password and issues an access token
func (s *AuthService) Login(ctx context.Context, tenantSlug, username, password string) (*LoginResult, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("slug = ?", strings.ToLower(tenantSlug)).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND username = ?", tenant.ID, username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		s.log.Warn("Rejected login", zap.Uint("tenant_id", tenant.ID), zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Role: user.Role, TenantID: tenant.ID, ExpiresAt: expiresAt}, nil
}

// CreateTenant provisions a tenant with its first admin and the default catalogue
func (s *AuthService) CreateTenant(ctx context.Context, slug, name, adminUsername, adminPassword string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || name == "" || adminUsername == "" || adminPassword == "" {
		return nil, fmt.Errorf("%w: slug, name, admin username and password are required", ErrValidation)
	}

	hash, err := HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tenant := models.Tenant{Slug: slug, Name: name}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicateTenant, slug)
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		admin := models.User{TenantID: tenant.ID, Username: adminUsername, PasswordHash: hash, Role: models.RoleAdmin}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		return seedProducts(tx, tenant.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tenant created", zap.Uint("tenant_id", tenant.ID), zap.String("slug", slug))
	return &tenant, nil
}

// CreateUser adds a user to an existing tenant
func (s *AuthService) CreateUser(ctx context.Context, tenantSlug, username, password, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, fmt.Errorf("%w: role must be admin or staff", ErrValidation)
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Where("slug = ?", strings.ToLower(tenantSlug)).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("tenant_id = ? AND username = ?", tenant.ID, username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{TenantID: tenant.ID, Username: username, PasswordHash: hash, Role: role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
