package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/BackofficeGo/internal/repository"
)

// Clamp bounds for the report operations.
const (
	defaultReportMonths = 12
	maxReportMonths     = 36
	defaultTopProducts  = 10
	maxTopProducts      = 50
	maxDailyRangeDays   = 366
)

// ReportService implements the read-only sales reporting operations.
type ReportService struct {
	reportRepo repository.ReportRepository
	logger     *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(reportRepo repository.ReportRepository, logger *slog.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// MonthlyPurchases returns per-month purchase counts and totals for the last
// N months, counting from the first day of the starting month. Months is
// clamped to [1, 36]; non-positive values fall back to 12.
func (s *ReportService) MonthlyPurchases(ctx context.Context, months int) ([]repository.MonthlyBucket, error) {
	if months <= 0 {
		months = defaultReportMonths
	}
	if months > maxReportMonths {
		months = maxReportMonths
	}

	now := time.Now().UTC()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	buckets, err := s.reportRepo.MonthlyPurchases(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("monthly purchases report: %w", err)
	}

	return buckets, nil
}

// DailySales returns per-day counts and totals for the inclusive date range.
// The range is normalised to whole days, swapped when reversed, capped at 366
// days, and zero-filled so every day appears exactly once.
func (s *ReportService) DailySales(ctx context.Context, from, to time.Time) ([]repository.DailyBucket, error) {
	from = truncateToDay(from)
	to = truncateToDay(to)

	if from.After(to) {
		from, to = to, from
	}

	if days := int(to.Sub(from).Hours()/24) + 1; days > maxDailyRangeDays {
		to = from.AddDate(0, 0, maxDailyRangeDays-1)
	}

	// Query through the end of the last day.
	buckets, err := s.reportRepo.DailySales(ctx, from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("daily sales report: %w", err)
	}

	byDay := make(map[time.Time]repository.DailyBucket, len(buckets))
	for _, b := range buckets {
		byDay[truncateToDay(b.Date)] = b
	}

	filled := make([]repository.DailyBucket, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if b, ok := byDay[day]; ok {
			b.Date = day
			filled = append(filled, b)
		} else {
			filled = append(filled, repository.DailyBucket{Date: day})
		}
	}

	return filled, nil
}

// SalesKPIs returns headline figures for the inclusive date range.
func (s *ReportService) SalesKPIs(ctx context.Context, from, to time.Time) (*repository.KPIs, error) {
	from = truncateToDay(from)
	to = truncateToDay(to)
	if from.After(to) {
		from, to = to, from
	}

	kpis, err := s.reportRepo.SalesKPIs(ctx, from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("sales kpis report: %w", err)
	}

	return kpis, nil
}

// TopProducts returns the best-selling products by revenue in the inclusive
// date range. Top is clamped to [1, 50]; non-positive values fall back to 10.
func (s *ReportService) TopProducts(ctx context.Context, from, to time.Time, top int) ([]repository.ProductSales, error) {
	if top <= 0 {
		top = defaultTopProducts
	}
	if top > maxTopProducts {
		top = maxTopProducts
	}

	from = truncateToDay(from)
	to = truncateToDay(to)
	if from.After(to) {
		from, to = to, from
	}

	products, err := s.reportRepo.TopProducts(ctx, from, to.Add(24*time.Hour-time.Nanosecond), top)
	if err != nil {
		return nil, fmt.Errorf("top products report: %w", err)
	}

	return products, nil
}

// truncateToDay normalises a timestamp to midnight UTC.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
