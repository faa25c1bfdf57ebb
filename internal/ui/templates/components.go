package templates

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"ecommerce-dashboard/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// Money formats monetary values for display.
type Money interface {
	Format(v float64) string
	Code() string
}

// Fragment ids; SSE patches replace the element with the same id.
const (
	MetricsID      = "metrics"
	MonthlyID      = "monthly-chart"
	DaysID         = "day-chart"
	DeliveryID     = "delivery-chart"
	CitiesID       = "cities-chart"
	CategoriesID   = "categories-chart"
	WeightGroupsID = "weight-chart"
	MapID          = "geo-map"
)

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return views.ExecuteTemplate(w, name, data)
	})
}

type pageData struct {
	Script   string
	Bounds   models.DateRange
	Selected models.DateRange
	Signals  string
	Sections []templ.Component
}

// Dashboard renders the full page with every summary of rep already in place.
func Dashboard(rep models.Report, bounds models.DateRange, money Money) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := pageData{
			Script:   datastarScript,
			Bounds:   bounds,
			Selected: rep.Range,
			Signals: fmt.Sprintf(`{"startDate":%q,"endDate":%q}`,
				rep.Range.Start.Format(time.DateOnly), rep.Range.End.Format(time.DateOnly)),
			Sections: Fragments(rep, money),
		}
		return views.ExecuteTemplate(w, "page", data)
	})
}

// Fragments returns one component per dashboard section, in page order.
func Fragments(rep models.Report, money Money) []templ.Component {
	return []templ.Component{
		MetricsCard(rep.Metrics, money),
		MonthlyChart(rep.Monthly, money),
		DayOfPurchaseChart(rep.DaysOfPurchase),
		DeliveryChart(rep.DeliveryStatus),
		TopCitiesChart(rep.TopCities),
		TopCategoriesChart(rep.TopCategories, money),
		WeightGroupsChart(rep.WeightGroups),
		GeoMap(rep.Map, money),
	}
}

type metricsData struct {
	ID          string
	TotalOrders int
	Revenue     string
	Currency    string
	Delivery    string
}

func MetricsCard(m models.SummaryMetrics, money Money) templ.Component {
	delivery := "n/a"
	if m.AverageDeliveryRound != nil {
		delivery = strconv.Itoa(*m.AverageDeliveryRound)
	}
	revenue := m.TotalRevenueFormatted
	if revenue == "" {
		revenue = money.Format(m.TotalRevenue)
	}
	return render("metrics", metricsData{
		ID:          MetricsID,
		TotalOrders: m.TotalOrders,
		Revenue:     revenue,
		Currency:    money.Code(),
		Delivery:    delivery,
	})
}

func MonthlyChart(rows []models.MonthlyOrders, money Money) templ.Component {
	return render("monthly", newMonthlyView(rows, money.Format))
}

func DayOfPurchaseChart(rows []models.DayOfPurchase) templ.Component {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{
			Label:     r.Day,
			Value:     float64(r.CountOfOrder),
			Display:   strconv.Itoa(r.CountOfOrder),
			Highlight: r.Highlight,
		}
	}
	return render("bars", newBarChart(DaysID, "📈 Top days orders created", "lightgrey", bars))
}

func DeliveryChart(rows []models.DeliveryStatusCount) templ.Component {
	return render("pie", newPieView(rows))
}

func TopCitiesChart(rows []models.CityRevenue) templ.Component {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Label: r.City, Value: float64(r.OrderCount), Display: strconv.Itoa(r.OrderCount)}
	}
	return render("bars", newBarChart(CitiesID, "🏢 Top 10 cities by orders", "limegreen", bars))
}

func TopCategoriesChart(rows []models.CategoryRevenue, money Money) templ.Component {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Label: r.CategoryName, Value: r.Revenue, Display: money.Format(r.Revenue)}
	}
	return render("bars", newBarChart(CategoriesID, "🛒 Top 10 categories by revenue", "deepskyblue", bars))
}

func WeightGroupsChart(rows []models.WeightGroupCount) templ.Component {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Label: r.WeightGroup, Value: float64(r.OrderCount), Display: strconv.Itoa(r.OrderCount)}
	}
	return render("bars", newBarChart(WeightGroupsID, "⚖ Weight category by order", "yellowgreen", bars))
}

func GeoMap(points []models.MapPoint, money Money) templ.Component {
	return render("map", newMapView(points, money.Format))
}
