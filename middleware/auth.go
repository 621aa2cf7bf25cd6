package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dairymanager/dairy-api/config"
	"github.com/dairymanager/dairy-api/logger"
	"github.com/dairymanager/dairy-api/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by EnsureValidToken
const (
	UserIDKey          = "user_id"
	TenantIDKey        = "tenant_id"
	RoleKey            = "role"
	ValidatedClaimsKey = "validated_claims"
)

// CustomClaims are the tenant binding carried in every access token
type CustomClaims struct {
	TenantID uint   `json:"tenant_id"`
	Role     string `json:"role"`
}

// Validate rejects tokens without a tenant or with an unknown role
func (c CustomClaims) Validate(ctx context.Context) error {
	if c.TenantID == 0 {
		return errors.New("token has no tenant")
	}
	if c.Role != models.RoleAdmin && c.Role != models.RoleStaff {
		return fmt.Errorf("token has unknown role %q", c.Role)
	}
	return nil
}

// EnsureValidToken checks the bearer token signed with the configured HS256 secret and
// stores the caller's tenant scope in the gin context
func EnsureValidToken(cfg *config.Config) (gin.HandlerFunc, error) {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	validate := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {}),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return
			}
			custom, ok := claims.CustomClaims.(*CustomClaims)
			if !ok {
				return
			}
			userID, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
			if err != nil {
				return
			}

			c.Request = r
			c.Set(UserIDKey, uint(userID))
			c.Set(TenantIDKey, custom.TenantID)
			c.Set(RoleKey, custom.Role)
			c.Set(ValidatedClaimsKey, claims)
			passed = true
		}

		validate.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !passed {
			logger.FromGin(c).Warn("Rejected access token", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT.",
				},
			})
			return
		}
		c.Next()
	}, nil
}

// GetScope returns the tenant scope of the authenticated caller
func GetScope(c *gin.Context) (models.TenantScope, error) {
	tenantID, ok := c.Get(TenantIDKey)
	if !ok {
		return models.TenantScope{}, &AuthError{Code: "MISSING_TENANT", Message: "Tenant not found in context"}
	}
	tid, ok := tenantID.(uint)
	if !ok || tid == 0 {
		return models.TenantScope{}, &AuthError{Code: "INVALID_TENANT", Message: "Tenant ID is not valid"}
	}

	userID, ok := c.Get(UserIDKey)
	if !ok {
		return models.TenantScope{}, &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}
	uid, ok := userID.(uint)
	if !ok {
		return models.TenantScope{}, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not valid"}
	}

	return models.TenantScope{TenantID: tid, UserID: uid, Role: c.GetString(RoleKey)}, nil
}

// RequireRole is a middleware that only lets callers with the given role through
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := GetScope(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_CLAIMS",
					"message": "Could not retrieve token claims",
				},
			})
			return
		}

		if scope.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_ROLE",
					"message": "Insufficient permissions to access this resource",
				},
			})
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
