package controllers

import (
	"errors"
	"net/http"

	"github.com/dairymanager/dairy-api/logger"
	"github.com/dairymanager/dairy-api/middleware"
	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// serviceErrors maps service sentinels to a status and error code
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrCustomerNotFound, http.StatusNotFound, "CUSTOMER_NOT_FOUND"},
	{services.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{services.ErrEmployeeNotFound, http.StatusNotFound, "EMPLOYEE_NOT_FOUND"},
	{services.ErrTenantNotFound, http.StatusNotFound, "TENANT_NOT_FOUND"},
	{services.ErrDuplicatePhone, http.StatusConflict, "PHONE_EXISTS"},
	{services.ErrDuplicateTenant, http.StatusConflict, "TENANT_EXISTS"},
	{services.ErrDuplicateUser, http.StatusConflict, "USER_EXISTS"},
	{services.ErrCustomerHasHistory, http.StatusConflict, "CUSTOMER_HAS_HISTORY"},
	{services.ErrConcurrentModification, http.StatusConflict, "CONCURRENT_MODIFICATION"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{services.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{services.ErrArchiveDisabled, http.StatusServiceUnavailable, "ARCHIVE_DISABLED"},
}

// respondServiceError writes the error envelope for err. Unknown errors are logged and
// reported as a database failure with the given message.
func respondServiceError(c *gin.Context, err error, message string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			respondError(c, m.status, m.code, err.Error())
			return
		}
	}

	logger.FromGin(c).Error(message, zap.Error(err))
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
}

// requireScope returns the caller's tenant scope or writes a 401
func requireScope(c *gin.Context) (models.TenantScope, bool) {
	scope, err := middleware.GetScope(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return models.TenantScope{}, false
	}
	return scope, true
}

// queryDate parses a YYYY-MM-DD query parameter, returning fallback when it is absent.
// A malformed value writes a 400 and reports false.
func queryDate(c *gin.Context, key string, fallback timeutil.Date) (timeutil.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		respondValidation(c, err)
		return timeutil.Date{}, false
	}
	return d, true
}
