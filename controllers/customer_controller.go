package controllers

import (
	"net/http"
	"strconv"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
)

// UpdateRatesRequest represents the request body for replacing a customer's rates
type UpdateRatesRequest struct {
	Rates map[string]float64 `json:"rates"`
	Scope string             `json:"scope"` // "future" (default) or "today"
}

// CustomerController serves customer accounts and their balances
type CustomerController struct {
	customers *services.CustomerService
	rates     *services.RateService
	ledger    *services.LedgerService
	dashboard *services.DashboardService
	clock     *timeutil.Clock
}

// NewCustomerController creates a customer controller
func NewCustomerController(customers *services.CustomerService, rates *services.RateService, ledger *services.LedgerService, dashboard *services.DashboardService, clock *timeutil.Clock) *CustomerController {
	return &CustomerController{customers: customers, rates: rates, ledger: ledger, dashboard: dashboard, clock: clock}
}

// List handles GET /api/v1/customers
func (h *CustomerController) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	customers, err := h.customers.List(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve customers")
		return
	}

	views := make([]models.CustomerView, 0, len(customers))
	for _, cust := range customers {
		views = append(views, cust.View())
	}
	respondOK(c, http.StatusOK, views)
}

// Get handles GET /api/v1/customers/:id
func (h *CustomerController) Get(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve customer")
		return
	}
	respondOK(c, http.StatusOK, customer.View())
}

// Create handles POST /api/v1/customers
func (h *CustomerController) Create(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.CreateCustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create customer")
		return
	}
	respondOK(c, http.StatusCreated, customer.View())
}

// Update handles PUT /api/v1/customers/:id
func (h *CustomerController) Update(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.UpdateCustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update customer")
		return
	}
	respondOK(c, http.StatusOK, customer.View())
}

// Delete handles DELETE /api/v1/customers/:id
func (h *CustomerController) Delete(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), scope, c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete customer")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Deleted"})
}

// UpdateRates handles POST /api/v1/customers/:id/rates
func (h *CustomerController) UpdateRates(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req UpdateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	result, err := h.rates.UpdateRates(c.Request.Context(), scope, c.Param("id"), req.Rates, req.Scope)
	if err != nil {
		respondServiceError(c, err, "Failed to update rates")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Balance handles GET /api/v1/customers/:id/balance?date=YYYY-MM-DD
func (h *CustomerController) Balance(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", h.clock.Today())
	if !ok {
		return
	}

	balance, err := h.dashboard.CustomerBalanceAt(c.Request.Context(), scope, c.Param("id"), date)
	if err != nil {
		respondServiceError(c, err, "Failed to compute balance")
		return
	}
	respondOK(c, http.StatusOK, balance)
}

// Ledger handles GET /api/v1/customers/:id/ledger?limit=N
func (h *CustomerController) Ledger(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.ledger.Entries(c.Request.Context(), scope, c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve ledger")
		return
	}
	respondOK(c, http.StatusOK, entries)
}

// Reconcile handles GET /api/v1/customers/:id/reconcile (admin only)
func (h *CustomerController) Reconcile(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	rec, err := h.ledger.Reconcile(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile customer")
		return
	}
	respondOK(c, http.StatusOK, rec)
}
