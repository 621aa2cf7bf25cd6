package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
)

// DashboardController serves the day summary
type DashboardController struct {
	dashboard *services.DashboardService
	clock     *timeutil.Clock
}

// NewDashboardController creates a dashboard controller
func NewDashboardController(dashboard *services.DashboardService, clock *timeutil.Clock) *DashboardController {
	return &DashboardController{dashboard: dashboard, clock: clock}
}

// Get handles GET /api/v1/dashboard?date=YYYY-MM-DD. The date defaults to the business day.
func (h *DashboardController) Get(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	date, ok := queryDate(c, "date", h.clock.Today())
	if !ok {
		return
	}

	stats, err := h.dashboard.Dashboard(c.Request.Context(), scope, date)
	if err != nil {
		respondServiceError(c, err, "Failed to compute dashboard")
		return
	}
	respondOK(c, http.StatusOK, stats)
}
