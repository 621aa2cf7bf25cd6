package controllers

import (
	"net/http"

	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
)

// ReportController serves bulk reads: report ranges, archives and the app sync payload
type ReportController struct {
	reports  *services.ReportService
	archiver *services.ReportArchiver
}

// NewReportController creates a report controller
func NewReportController(reports *services.ReportService, archiver *services.ReportArchiver) *ReportController {
	return &ReportController{reports: reports, archiver: archiver}
}

// Sync handles GET /api/v1/sync
func (h *ReportController) Sync(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}

	snap, err := h.reports.Snapshot(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err, "Failed to load sync data")
		return
	}
	respondOK(c, http.StatusOK, snap)
}

// Data handles GET /api/v1/reports/data?start=&end=
func (h *ReportController) Data(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	report, err := h.reports.Data(c.Request.Context(), scope, start, end)
	if err != nil {
		respondServiceError(c, err, "Failed to load report data")
		return
	}
	respondOK(c, http.StatusOK, report)
}

// Archive handles POST /api/v1/reports/archive?start=&end=
func (h *ReportController) Archive(c *gin.Context) {
	scope, ok := requireScope(c)
	if !ok {
		return
	}
	start, end, ok := reportRange(c)
	if !ok {
		return
	}

	result, err := h.archiver.Archive(c.Request.Context(), scope, start, end)
	if err != nil {
		respondServiceError(c, err, "Failed to archive report")
		return
	}
	respondOK(c, http.StatusCreated, result)
}

func reportRange(c *gin.Context) (timeutil.Date, timeutil.Date, bool) {
	if c.Query("start") == "" || c.Query("end") == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Start and End dates required")
		return timeutil.Date{}, timeutil.Date{}, false
	}
	start, ok := queryDate(c, "start", timeutil.Date{})
	if !ok {
		return timeutil.Date{}, timeutil.Date{}, false
	}
	end, ok := queryDate(c, "end", timeutil.Date{})
	if !ok {
		return timeutil.Date{}, timeutil.Date{}, false
	}
	return start, end, true
}
