package attribution

import (
	"context"
	"fmt"
	"time"

	"github.com/leadflowhq/leadflow-backend/pkg/db/models"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
)

// timeNowUTC is swapped out in tests to pin the default window.
var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// LeadSource supplies the date-bounded lead set a report aggregates over.
// The lead repository satisfies this.
type LeadSource interface {
	FindInRange(ctx context.Context, orgID string, from, to time.Time) ([]models.Lead, error)
}

// ReportService produces attribution reports for one org at a time.
type ReportService interface {
	Report(ctx context.Context, orgID string, from, to *time.Time) (*Report, error)
}

type reportService struct {
	source     LeadSource
	logg       *logger.Logger
	windowDays int
}

// NewReportService wires the report service. windowDays sets the default
// lookback when the caller supplies no explicit range.
func NewReportService(source LeadSource, logg *logger.Logger, windowDays int) (ReportService, error) {
	if source == nil {
		return nil, fmt.Errorf("attribution: lead source is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("attribution: logger is required")
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &reportService{
		source:     source,
		logg:       logg,
		windowDays: windowDays,
	}, nil
}

// Report fetches the org's leads for the window once and computes every
// section in memory. A window with no activity yields a well-formed all-zero
// report; only the initial fetch can fail.
func (s *reportService) Report(ctx context.Context, orgID string, from, to *time.Time) (*Report, error) {
	window := s.resolveWindow(from, to)

	rows, err := s.source.FindInRange(ctx, orgID, window.From, window.To)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Success:        true,
		DateRange:      window,
		Summary:        Summarize(rows),
		BySource:       GroupBySource(rows),
		ByCampaign:     GroupByCampaign(rows),
		ByTimeframe:    GroupByTimeframe(rows, window.From, window.To),
		FunnelAnalysis: BuildFunnel(rows),
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"total_leads": report.Summary.TotalLeads,
		"from":        window.From.Format(time.RFC3339),
		"to":          window.To.Format(time.RFC3339),
	}), "attribution report computed")
	return report, nil
}

func (s *reportService) resolveWindow(from, to *time.Time) DateRange {
	now := timeNowUTC()
	window := DateRange{
		From: now.AddDate(0, 0, -s.windowDays),
		To:   now,
	}
	if from != nil {
		window.From = from.UTC()
	}
	if to != nil {
		window.To = to.UTC()
	}
	return window
}
