package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

func TestNewDashboard(t *testing.T) {
	d, err := NewDashboard(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 4, d.Len())
	assert.Equal(t, models.DateRange{Start: day("2017-01-05"), End: day("2017-04-01")}, d.Bounds())
	assert.Equal(t, "BRL", d.Currency().Code())
}

func TestDashboard_ReportDefaultRangeCoversEverything(t *testing.T) {
	d, err := NewDashboard(sampleRecords())
	require.NoError(t, err)

	rep := d.Report(context.Background(), d.Bounds())
	assert.Equal(t, 3, rep.Metrics.TotalOrders)
	assert.InDelta(t, 65, rep.Metrics.TotalRevenue, 1e-9)
	assert.Equal(t, "65,00", rep.Metrics.TotalRevenueFormatted)
	assert.Len(t, rep.Monthly, 4)
	assert.Len(t, rep.Map, 2)
	assert.Len(t, rep.WeightGroups, 2)
}

func TestDashboard_ReportAverageDeliveryIgnoresFilter(t *testing.T) {
	d, err := NewDashboard(sampleRecords())
	require.NoError(t, err)

	rep := d.Report(context.Background(), models.DateRange{Start: day("2017-04-01"), End: day("2017-04-01")})
	assert.Equal(t, 1, rep.Metrics.TotalOrders)
	require.NotNil(t, rep.Metrics.AverageDeliveryDays)
	assert.InDelta(t, 28.0/3.0, *rep.Metrics.AverageDeliveryDays, 1e-9)
}

func TestDashboard_ReportEmptyRange(t *testing.T) {
	d, err := NewDashboard(sampleRecords())
	require.NoError(t, err)

	rep := d.Report(context.Background(), models.DateRange{Start: day("2018-01-01"), End: day("2017-01-01")})
	assert.Zero(t, rep.Metrics.TotalOrders)
	assert.Zero(t, rep.Metrics.TotalRevenue)
	assert.Empty(t, rep.Monthly)
	assert.Empty(t, rep.DaysOfPurchase)
	assert.Empty(t, rep.DeliveryStatus)
	assert.Empty(t, rep.TopCities)
	assert.Empty(t, rep.TopCategories)
	assert.Empty(t, rep.WeightGroups)
	assert.Empty(t, rep.Map)
}

func TestDashboard_ResolveRange(t *testing.T) {
	d, err := NewDashboard(sampleRecords())
	require.NoError(t, err)

	r, err := d.ResolveRange("", "")
	require.NoError(t, err)
	assert.Equal(t, d.Bounds(), r)

	r, err = d.ResolveRange("2017-02-01", "")
	require.NoError(t, err)
	assert.Equal(t, day("2017-02-01"), r.Start)
	assert.Equal(t, d.Bounds().End, r.End)

	_, err = d.ResolveRange("02/01/2017", "")
	assert.ErrorContains(t, err, "invalid start date")

	_, err = d.ResolveRange("", "soon")
	assert.ErrorContains(t, err, "invalid end date")
}

func TestDashboard_Metrics(t *testing.T) {
	m := observability.NewMetrics()
	d, err := NewDashboard(sampleRecords(), WithMetrics(m))
	require.NoError(t, err)

	d.Report(context.Background(), d.Bounds())

	assert.Equal(t, 4.0, testutil.ToFloat64(m.RecordsLoaded()))
	count, err := testutil.GatherAndCount(m.Registry(), "dashboard_report_build_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadDashboard(t *testing.T) {
	d, err := LoadDashboard(context.Background(), createTempCSV(t, validCSV))
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 4, d.Stats()["record_count"])

	_, err = LoadDashboard(context.Background(), createTempCSV(t, ""))
	assert.ErrorContains(t, err, "process csv")
}
