package templates

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ecommerce-dashboard/internal/models"
)

const (
	chartWidth   = 720
	chartHeight  = 300
	chartPadding = 40

	mapWidth   = 720
	mapHeight  = 520
	mapPadding = 30
	minDot     = 3.0
	maxDot     = 20.0

	pieRadius = 110.0
	pieCenter = 130.0
)

var pieColors = []string{"lightgrey", "turquoise", "dodgerblue", "yellowgreen", "limegreen"}

// Bar is one bar of a horizontal bar chart.
type Bar struct {
	Label     string
	Value     float64
	Display   string
	Highlight bool
}

type barView struct {
	Label     string
	Display   string
	Width     string
	Highlight bool
}

type barChartView struct {
	ID    string
	Title string
	Color string
	Bars  []barView
}

func newBarChart(id, title, color string, bars []Bar) barChartView {
	var top float64
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}

	views := make([]barView, len(bars))
	for i, b := range bars {
		width := 0.0
		if top > 0 {
			width = b.Value / top * 100
		}
		views[i] = barView{
			Label:     b.Label,
			Display:   b.Display,
			Width:     strconv.FormatFloat(width, 'f', 1, 64),
			Highlight: b.Highlight,
		}
	}
	return barChartView{ID: id, Title: title, Color: color, Bars: views}
}

type point struct {
	X, Y float64
}

type axisLabel struct {
	X    float64
	Text string
}

type monthlyView struct {
	ID            string
	Width, Height int
	Baseline      float64
	Orders        string
	Revenue       string
	OrderDots     []point
	RevenueDots   []point
	Labels        []axisLabel
	MaxOrders     int
	MaxRevenue    string
	Empty         bool
}

func newMonthlyView(rows []models.MonthlyOrders, money func(float64) string) monthlyView {
	v := monthlyView{
		ID:       MonthlyID,
		Width:    chartWidth,
		Height:   chartHeight,
		Baseline: chartHeight - chartPadding,
		Empty:    len(rows) == 0,
	}
	if v.Empty {
		return v
	}

	var maxRevenue float64
	for _, r := range rows {
		v.MaxOrders = max(v.MaxOrders, r.OrderCount)
		maxRevenue = math.Max(maxRevenue, r.Revenue)
	}
	v.MaxRevenue = money(maxRevenue)

	plotW := float64(chartWidth - 2*chartPadding)
	plotH := float64(chartHeight - 2*chartPadding)
	step := 0.0
	if len(rows) > 1 {
		step = plotW / float64(len(rows)-1)
	}
	y := func(value, top float64) float64 {
		if top <= 0 {
			return v.Baseline
		}
		return v.Baseline - value/top*plotH
	}

	orders := make([]string, len(rows))
	revenue := make([]string, len(rows))
	for i, r := range rows {
		x := chartPadding + step*float64(i)
		if len(rows) == 1 {
			x = chartPadding + plotW/2
		}
		o := point{X: x, Y: y(float64(r.OrderCount), float64(v.MaxOrders))}
		rv := point{X: x, Y: y(r.Revenue, maxRevenue)}
		v.OrderDots = append(v.OrderDots, o)
		v.RevenueDots = append(v.RevenueDots, rv)
		orders[i] = fmt.Sprintf("%.1f,%.1f", o.X, o.Y)
		revenue[i] = fmt.Sprintf("%.1f,%.1f", rv.X, rv.Y)
		v.Labels = append(v.Labels, axisLabel{X: x, Text: r.Label})
	}
	v.Orders = strings.Join(orders, " ")
	v.Revenue = strings.Join(revenue, " ")
	return v
}

type pieSlice struct {
	Path    string
	Full    bool
	Color   string
	Label   string
	Percent string
}

type pieView struct {
	ID     string
	Size   float64
	Center float64
	Radius float64
	Slices []pieSlice
}

func newPieView(rows []models.DeliveryStatusCount) pieView {
	v := pieView{ID: DeliveryID, Size: 2 * pieCenter, Center: pieCenter, Radius: pieRadius}

	angle := -math.Pi / 2
	for i, r := range rows {
		if r.Share == nil {
			continue
		}
		share := *r.Share
		s := pieSlice{
			Color:   pieColors[i%len(pieColors)],
			Label:   r.Status,
			Percent: fmt.Sprintf("%.1f%%", share*100),
		}
		if share >= 1 {
			s.Full = true
		} else if share > 0 {
			end := angle + share*2*math.Pi
			large := 0
			if share > 0.5 {
				large = 1
			}
			s.Path = fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
				pieCenter, pieCenter,
				pieCenter+pieRadius*math.Cos(angle), pieCenter+pieRadius*math.Sin(angle),
				pieRadius, pieRadius, large,
				pieCenter+pieRadius*math.Cos(end), pieCenter+pieRadius*math.Sin(end))
			angle = end
		}
		v.Slices = append(v.Slices, s)
	}
	return v
}

type mapDotView struct {
	X, Y, R float64
	City    string
	Orders  int
	Revenue string
}

type mapView struct {
	ID            string
	Width, Height int
	Dots          []mapDotView
}

// newMapView projects points equirectangularly onto the bounding box of the
// data; dot area grows with revenue.
func newMapView(points []models.MapPoint, money func(float64) string) mapView {
	v := mapView{ID: MapID, Width: mapWidth, Height: mapHeight}
	if len(points) == 0 {
		return v
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLng, maxLng := points[0].Longitude, points[0].Longitude
	var maxRevenue float64
	for _, p := range points {
		minLat, maxLat = math.Min(minLat, p.Latitude), math.Max(maxLat, p.Latitude)
		minLng, maxLng = math.Min(minLng, p.Longitude), math.Max(maxLng, p.Longitude)
		maxRevenue = math.Max(maxRevenue, p.Revenue)
	}

	project := func(value, lo, hi, size float64, invert bool) float64 {
		usable := size - 2*mapPadding
		if hi == lo {
			return size / 2
		}
		frac := (value - lo) / (hi - lo)
		if invert {
			frac = 1 - frac
		}
		return mapPadding + frac*usable
	}

	for _, p := range points {
		r := minDot
		if maxRevenue > 0 && p.Revenue > 0 {
			r += (maxDot - minDot) * math.Sqrt(p.Revenue/maxRevenue)
		}
		v.Dots = append(v.Dots, mapDotView{
			X:       project(p.Longitude, minLng, maxLng, mapWidth, false),
			Y:       project(p.Latitude, minLat, maxLat, mapHeight, true),
			R:       r,
			City:    p.City,
			Orders:  p.OrderCount,
			Revenue: money(p.Revenue),
		})
	}
	return v
}
