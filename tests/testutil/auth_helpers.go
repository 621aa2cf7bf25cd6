package testutil

import (
	"testing"

	"github.com/dairymanager/dairy-api/config"
	"github.com/dairymanager/dairy-api/middleware"
	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/gin-gonic/gin"
)

// TestConfig returns a configuration suitable for router and token tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        ":memory:",
		Port:               "0",
		GoEnv:              "test",
		JWTSecret:          "test-secret",
		JWTIssuer:          "dairy-api",
		JWTAudience:        "dairy-app",
		TokenTTLHours:      1,
		BusinessTimezone:   "Asia/Kolkata",
		CORSAllowedOrigins: []string{"*"},
	}
}

// SetMockAuthContext sets the keys the auth middleware would set for scope
func SetMockAuthContext(c *gin.Context, scope models.TenantScope) {
	c.Set(middleware.TenantIDKey, scope.TenantID)
	c.Set(middleware.UserIDKey, scope.UserID)
	c.Set(middleware.RoleKey, scope.Role)
}

// MockAuthMiddleware authenticates every request as scope
func MockAuthMiddleware(scope models.TenantScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, scope)
		c.Next()
	}
}

// BearerToken issues a real access token for scope's user
func BearerToken(t *testing.T, cfg *config.Config, scope models.TenantScope) string {
	t.Helper()

	token, _, err := services.NewTokenService(cfg).Issue(models.User{
		ID:       scope.UserID,
		TenantID: scope.TenantID,
		Role:     scope.Role,
	})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}
