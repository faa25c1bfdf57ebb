package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ecommerce-dashboard/internal/models"
)

// Money formats monetary values for display.
type Money interface {
	Format(v float64) string
	Code() string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	markStyle   = numberStyle.Foreground(lipgloss.Color("43")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	metricStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

// Reporter writes reports either as styled tables or as JSON.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) JSON(rep models.Report) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// Tables renders the summary metrics followed by one table per aggregation.
func (r *Reporter) Tables(rep models.Report, money Money) error {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("E-Commerce Dashboard  %s to %s",
			rep.Range.Start.Format(time.DateOnly), rep.Range.End.Format(time.DateOnly))),
		metricsBox(rep.Metrics, money),
		section("Orders and revenue by month", []string{"Month", "Orders", "Revenue"}, monthlyRows(rep.Monthly, money), nil),
		section("Orders by day of purchase", []string{"Day", "Orders"}, dayRows(rep.DaysOfPurchase), highlighted(rep.DaysOfPurchase)),
		section("Delivery status", []string{"Status", "Orders", "Share"}, deliveryRows(rep.DeliveryStatus), nil),
		section("Top 10 cities by revenue", []string{"City", "Revenue", "Orders"}, cityRows(rep.TopCities, money), nil),
		section("Top 10 categories by revenue", []string{"Category", "Orders", "Revenue"}, categoryRows(rep.TopCategories, money), nil),
		section("Weight groups", []string{"Weight group", "Orders"}, weightRows(rep.WeightGroups), nil),
		section("Cities on the map", []string{"City", "Latitude", "Longitude", "Orders", "Revenue"}, mapRows(rep.Map, money), nil),
	}

	for _, s := range sections {
		if _, err := fmt.Fprintln(r.out, s); err != nil {
			return err
		}
	}
	return nil
}

func metricsBox(m models.SummaryMetrics, money Money) string {
	delivery := "n/a"
	if m.AverageDeliveryRound != nil {
		delivery = strconv.Itoa(*m.AverageDeliveryRound) + " days"
	}
	revenue := m.TotalRevenueFormatted
	if revenue == "" {
		revenue = money.Format(m.TotalRevenue)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricStyle.Render("Total orders\n"+strconv.Itoa(m.TotalOrders)),
		metricStyle.Render("Total revenue\n"+revenue+" "+money.Code()),
		metricStyle.Render("Avg delivery time\n"+delivery),
	)
}

// section renders a titled table. Column 0 is text, the rest are right
// aligned; rows whose index is in marked are emphasised.
func section(title string, headers []string, rows [][]string, marked map[int]bool) string {
	if len(rows) == 0 {
		return titleStyle.Render(title) + "\n  no data in the selected range"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			case marked[row]:
				return markStyle
			default:
				return numberStyle
			}
		})

	return titleStyle.Render(title) + "\n" + t.String()
}

func highlighted(days []models.DayOfPurchase) map[int]bool {
	marked := make(map[int]bool)
	for i, d := range days {
		if d.Highlight {
			marked[i] = true
		}
	}
	return marked
}

func monthlyRows(rows []models.MonthlyOrders, money Money) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Label, strconv.Itoa(r.OrderCount), money.Format(r.Revenue)}
	}
	return out
}

func dayRows(rows []models.DayOfPurchase) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		count := strconv.Itoa(r.CountOfOrder)
		if r.Highlight {
			count += " *"
		}
		out[i] = []string{r.Day, count}
	}
	return out
}

func deliveryRows(rows []models.DeliveryStatusCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		share := "n/a"
		if r.Share != nil {
			share = strconv.FormatFloat(*r.Share*100, 'f', 1, 64) + "%"
		}
		out[i] = []string{r.Status, strconv.Itoa(r.Order), share}
	}
	return out
}

func cityRows(rows []models.CityRevenue, money Money) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.City, money.Format(r.Revenue), strconv.Itoa(r.OrderCount)}
	}
	return out
}

func categoryRows(rows []models.CategoryRevenue, money Money) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.CategoryName, strconv.Itoa(r.OrderCount), money.Format(r.Revenue)}
	}
	return out
}

func weightRows(rows []models.WeightGroupCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.WeightGroup, strconv.Itoa(r.OrderCount)}
	}
	return out
}

func mapRows(rows []models.MapPoint, money Money) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.City,
			strconv.FormatFloat(r.Latitude, 'f', 4, 64),
			strconv.FormatFloat(r.Longitude, 'f', 4, 64),
			strconv.Itoa(r.OrderCount),
			money.Format(r.Revenue),
		}
	}
	return out
}
