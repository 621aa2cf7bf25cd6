package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// PaymentController records collections
type PaymentController struct {
	ledger *services.LedgerService
}

// NewPaymentController creates a payment controller
func NewPaymentController(ledger *services.LedgerService) *PaymentController {
	return &PaymentController{ledger: ledger}
}

// Create handles POST /api/v1/payments. A repeated Idempotency-Key returns the first payment.
func (h *PaymentController) Create(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	var req services.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(idempotencyHeader)

	result, err := h.ledger.RecordPayment(c.Request.Context(), scope, req)
	if err != nil {
		respondServiceError(c, err, "Failed to record payment")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondOK(c, status, result)
}
