package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
)

// SaveOrdersRequest represents the request body for a bulk save of one date's orders
type SaveOrdersRequest struct {
	Date   timeutil.Date         `json:"date"`
	Orders []services.OrderInput `json:"orders" binding:"dive"`
}

// FinalizeRequest represents the request body for finalizing a date
type FinalizeRequest struct {
	Date timeutil.Date `json:"date"`
}

// OrderController serves daily orders
type OrderController struct {
	ledger  *services.LedgerService
	reports *services.ReportService
	clock   *timeutil.Clock
}

// NewOrderController creates an order controller
func NewOrderController(ledger *services.LedgerService, reports *services.ReportService, clock *timeutil.Clock) *OrderController {
	return &OrderController{ledger: ledger, reports: reports, clock: clock}
}

// List handles GET /api/v1/orders?date=YYYY-MM-DD
func (h *OrderController) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", h.clock.Today())
	if !ok {
		return
	}

	orders, err := h.reports.OrdersOn(c.Request.Context(), scope, date)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve orders")
		return
	}
	respondOK(c, http.StatusOK, orders)
}

// Save handles POST /api/v1/orders/save
func (h *OrderController) Save(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req SaveOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	result, err := h.ledger.SaveOrders(c.Request.Context(), scope, req.Date, req.Orders)
	if err != nil {
		respondServiceError(c, err, "Failed to save orders")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// Finalize handles POST /api/v1/orders/finalize
func (h *OrderController) Finalize(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	result, err := h.ledger.FinalizeDate(c.Request.Context(), scope, req.Date)
	if err != nil {
		respondServiceError(c, err, "Failed to finalize orders")
		return
	}
	respondOK(c, http.StatusOK, result)
}
