package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

// Dashboard is the application state built once at startup: the immutable
// orders table plus everything derived from it that does not depend on the
// selected date range. It is safe for concurrent readers.
type Dashboard struct {
	records     []models.OrderRecord
	bounds      models.DateRange
	avgDelivery *float64
	currency    *CurrencyFormatter
	source      string
	loadedAt    time.Time
	logger      *slog.Logger
	metrics     *observability.Metrics
}

type Option func(*Dashboard)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dashboard) { d.metrics = m }
}

func WithCurrency(f *CurrencyFormatter) Option {
	return func(d *Dashboard) { d.currency = f }
}

func WithSource(name string) Option {
	return func(d *Dashboard) { d.source = name }
}

// NewDashboard takes ownership of records; callers must not modify them afterwards.
func NewDashboard(records []models.OrderRecord, opts ...Option) (*Dashboard, error) {
	d := &Dashboard{
		records:  records,
		loadedAt: time.Now(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.currency == nil {
		f, err := NewCurrencyFormatter(DefaultCurrencyLocale)
		if err != nil {
			return nil, err
		}
		d.currency = f
	}

	if len(records) > 0 {
		first, last := records[0].PurchasedAt, records[0].PurchasedAt
		for _, rec := range records[1:] {
			if rec.PurchasedAt.Before(first) {
				first = rec.PurchasedAt
			}
			if rec.PurchasedAt.After(last) {
				last = rec.PurchasedAt
			}
		}
		d.bounds = models.DateRange{Start: truncateDay(first), End: truncateDay(last)}
	}

	d.avgDelivery = AverageDeliveryDays(records)
	d.metrics.SetRecordsLoaded(len(records))

	return d, nil
}

// LoadDashboard reads the CSV at path and builds the dashboard state from it.
func LoadDashboard(ctx context.Context, path string, opts ...Option) (*Dashboard, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.load", attribute.String("csv.path", path))
	defer span.End()

	start := time.Now()
	records, err := LoadRecords(ctx, path)
	if err != nil {
		observability.SetSpanError(span, err)
		return nil, fmt.Errorf("process csv: %w", err)
	}

	d, err := NewDashboard(records, append([]Option{WithSource(path)}, opts...)...)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	d.logger.Info("csv processing complete",
		"records", len(records),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))
	span.SetAttributes(attribute.Int("csv.records", len(records)))

	return d, nil
}

// Bounds is the default date range: the first and last purchase days.
func (d *Dashboard) Bounds() models.DateRange {
	return d.bounds
}

func (d *Dashboard) Len() int {
	return len(d.records)
}

func (d *Dashboard) Currency() *CurrencyFormatter {
	return d.currency
}

// Report filters the table to r and recomputes every summary.
func (d *Dashboard) Report(ctx context.Context, r models.DateRange) models.Report {
	_, span := observability.StartSpan(ctx, "dashboard.report",
		attribute.String("range.start", r.Start.Format(time.DateOnly)),
		attribute.String("range.end", r.End.Format(time.DateOnly)),
	)
	defer span.End()

	start := time.Now()
	filtered := FilterByDate(d.records, r)
	monthly := MonthlyOrders(filtered)

	report := models.Report{
		Range:          r,
		Metrics:        Metrics(monthly, d.avgDelivery, d.currency),
		Monthly:        monthly,
		DaysOfPurchase: DaysOfPurchase(filtered),
		DeliveryStatus: DeliveryStatuses(filtered),
		TopCities:      TopCities(filtered),
		TopCategories:  TopCategories(filtered),
		WeightGroups:   WeightGroups(filtered),
		Map:            MapPoints(filtered),
	}

	d.metrics.ObserveReport(time.Since(start), len(filtered))
	span.SetAttributes(attribute.Int("report.rows", len(filtered)))
	d.logger.Debug("report built",
		"start", r.Start.Format(time.DateOnly),
		"end", r.End.Format(time.DateOnly),
		"rows", len(filtered),
		"duration", time.Since(start))

	return report
}

// ResolveRange parses optional YYYY-MM-DD bounds, falling back to the
// dashboard bounds for any that are empty.
func (d *Dashboard) ResolveRange(start, end string) (models.DateRange, error) {
	r := d.bounds
	if start != "" {
		t, err := time.ParseInLocation(time.DateOnly, start, time.UTC)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.ParseInLocation(time.DateOnly, end, time.UTC)
		if err != nil {
			return models.DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		r.End = t
	}
	return r, nil
}

func (d *Dashboard) Stats() map[string]any {
	return map[string]any{
		"record_count": len(d.records),
		"source":       d.source,
		"loaded_at":    d.loadedAt,
		"first_day":    d.bounds.Start.Format(time.DateOnly),
		"last_day":     d.bounds.End.Format(time.DateOnly),
		"currency":     d.currency.Code(),
	}
}
