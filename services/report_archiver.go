package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/timeutil"
	"go.uber.org/zap"
)

const archiveURLTTL = time.Hour

// ArchiveResult points at an uploaded report
type ArchiveResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Orders    int       `json:"orders"`
	Payments  int       `json:"payments"`
	Expenses  int       `json:"expenses"`
}

// ReportArchiver uploads report data to object storage
type ReportArchiver struct {
	reports *ReportService
	store   ObjectStore
	clock   *timeutil.Clock
	log     *zap.Logger
}

// NewReportArchiver creates an archiver. A nil store disables archiving.
func NewReportArchiver(reports *ReportService, store ObjectStore, clock *timeutil.Clock, log *zap.Logger) *ReportArchiver {
	return &ReportArchiver{reports: reports, store: store, clock: clock, log: log}
}

// Enabled reports whether a store is configured
func (a *ReportArchiver) Enabled() bool {
	return a != nil && a.store != nil
}

// Archive builds the report for the range, uploads it as JSON and returns a download link
func (a *ReportArchiver) Archive(ctx context.Context, scope models.TenantScope, start, end timeutil.Date) (*ArchiveResult, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}

	report, err := a.reports.Data(ctx, scope, start, end)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	now := a.clock.Now()
	key := fmt.Sprintf("reports/%d/%s_%s_%d.json", scope.TenantID, start, end, now.Unix())
	if err := a.store.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, err
	}
	url, err := a.store.PresignGet(ctx, key, archiveURLTTL)
	if err != nil {
		return nil, err
	}

	a.log.Info("Report archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return &ArchiveResult{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(archiveURLTTL),
		Orders:    len(report.Orders),
		Payments:  len(report.Payments),
		Expenses:  len(report.Expenses),
	}, nil
}
