package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
)

// ExpenseController serves business expenses
type ExpenseController struct {
	expenses *services.ExpenseService
}

// NewExpenseController creates an expense controller
func NewExpenseController(expenses *services.ExpenseService) *ExpenseController {
	return &ExpenseController{expenses: expenses}
}

// List handles GET /api/v1/expenses?startDate=&endDate=&employeeId=
func (h *ExpenseController) List(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	start, ok := queryDate(c, "startDate", timeutil.Date{})
	if !ok {
		return
	}
	end, ok := queryDate(c, "endDate", timeutil.Date{})
	if !ok {
		return
	}

	expenses, err := h.expenses.List(c.Request.Context(), scope, services.ExpenseFilter{
		Start:      start,
		End:        end,
		EmployeeID: c.Query("employeeId"),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve expenses")
		return
	}
	respondOK(c, http.StatusOK, expenses)
}

// Create handles POST /api/v1/expenses
func (h *ExpenseController) Create(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.CreateExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), scope, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create expense")
		return
	}
	respondOK(c, http.StatusCreated, expense)
}
