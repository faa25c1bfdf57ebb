package services

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"time"

	"ecommerce-dashboard/internal/models"
)

// TopN is the truncation length of the top-cities and top-categories tables.
const TopN = 10

const monthLabelLayout = "Jan-2006"

// group accumulates one group-by key.
type group struct {
	orders  map[string]struct{}
	rows    int
	revenue float64
}

func (g *group) add(rec models.OrderRecord) {
	g.orders[rec.OrderID] = struct{}{}
	g.rows++
	g.revenue += rec.Price
}

func groupBy(records []models.OrderRecord, key func(models.OrderRecord) string) map[string]*group {
	groups := make(map[string]*group)
	for _, rec := range records {
		k := key(rec)
		g, ok := groups[k]
		if !ok {
			g = &group{orders: make(map[string]struct{})}
			groups[k] = g
		}
		g.add(rec)
	}
	return groups
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterByDate keeps the records purchased on a day within r, bounds inclusive.
func FilterByDate(records []models.OrderRecord, r models.DateRange) []models.OrderRecord {
	filtered := make([]models.OrderRecord, 0, len(records))
	if r.Empty() {
		return filtered
	}

	start := truncateDay(r.Start)
	end := truncateDay(r.End).AddDate(0, 0, 1)
	for _, rec := range records {
		if !rec.PurchasedAt.Before(start) && rec.PurchasedAt.Before(end) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// MonthlyOrders buckets records by calendar month, including empty months
// between the first and last month present.
func MonthlyOrders(records []models.OrderRecord) []models.MonthlyOrders {
	result := make([]models.MonthlyOrders, 0)
	if len(records) == 0 {
		return result
	}

	monthIndex := func(t time.Time) int {
		return t.Year()*12 + int(t.Month()) - 1
	}

	buckets := make(map[int]*group)
	first, last := math.MaxInt, math.MinInt
	loc := records[0].PurchasedAt.Location()
	for _, rec := range records {
		idx := monthIndex(rec.PurchasedAt)
		first = min(first, idx)
		last = max(last, idx)

		b, ok := buckets[idx]
		if !ok {
			b = &group{orders: make(map[string]struct{})}
			buckets[idx] = b
		}
		b.add(rec)
	}

	for idx := first; idx <= last; idx++ {
		month := time.Date(idx/12, time.Month(idx%12+1), 1, 0, 0, 0, 0, loc)
		row := models.MonthlyOrders{
			Month: month,
			Label: month.Format(monthLabelLayout),
		}
		if b, ok := buckets[idx]; ok {
			row.OrderCount = len(b.orders)
			row.Revenue = b.revenue
		}
		result = append(result, row)
	}
	return result
}

// DaysOfPurchase counts distinct orders per weekday label, most popular first.
// Every day sharing the maximum count is highlighted.
func DaysOfPurchase(records []models.OrderRecord) []models.DayOfPurchase {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.DayOfPurchase })

	result := make([]models.DayOfPurchase, 0, len(groups))
	for _, day := range slices.Sorted(maps.Keys(groups)) {
		result = append(result, models.DayOfPurchase{
			Day:          day,
			CountOfOrder: len(groups[day].orders),
		})
	}
	slices.SortStableFunc(result, func(a, b models.DayOfPurchase) int {
		return cmp.Compare(b.CountOfOrder, a.CountOfOrder)
	})

	if len(result) > 0 {
		top := result[0].CountOfOrder
		for i := range result {
			result[i].Highlight = result[i].CountOfOrder == top
		}
	}
	return result
}

// DeliveryStatuses counts distinct orders per delivery status.
func DeliveryStatuses(records []models.OrderRecord) []models.DeliveryStatusCount {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.DeliveryStatus })

	result := make([]models.DeliveryStatusCount, 0, len(groups))
	total := 0
	for _, status := range slices.Sorted(maps.Keys(groups)) {
		n := len(groups[status].orders)
		total += n
		result = append(result, models.DeliveryStatusCount{Status: status, Order: n})
	}

	if total > 0 {
		for i := range result {
			share := float64(result[i].Order) / float64(total)
			result[i].Share = &share
		}
	}
	return result
}

// TopCities ranks cities by revenue, then by distinct order count.
func TopCities(records []models.OrderRecord) []models.CityRevenue {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.CustomerCity })

	result := make([]models.CityRevenue, 0, len(groups))
	for _, city := range slices.Sorted(maps.Keys(groups)) {
		g := groups[city]
		result = append(result, models.CityRevenue{
			City:       city,
			Revenue:    g.revenue,
			OrderCount: len(g.orders),
		})
	}
	slices.SortStableFunc(result, func(a, b models.CityRevenue) int {
		if c := cmp.Compare(b.Revenue, a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(b.OrderCount, a.OrderCount)
	})
	return head(result, TopN)
}

// TopCategories ranks product categories by revenue.
func TopCategories(records []models.OrderRecord) []models.CategoryRevenue {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.Category })

	result := make([]models.CategoryRevenue, 0, len(groups))
	for _, category := range slices.Sorted(maps.Keys(groups)) {
		g := groups[category]
		result = append(result, models.CategoryRevenue{
			CategoryName: category,
			OrderCount:   len(g.orders),
			Revenue:      g.revenue,
		})
	}
	slices.SortStableFunc(result, func(a, b models.CategoryRevenue) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	return head(result, TopN)
}

// WeightGroups counts line items, not distinct orders, per weight bucket.
func WeightGroups(records []models.OrderRecord) []models.WeightGroupCount {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.WeightGroup })

	result := make([]models.WeightGroupCount, 0, len(groups))
	for _, wg := range slices.Sorted(maps.Keys(groups)) {
		result = append(result, models.WeightGroupCount{
			WeightGroup: wg,
			OrderCount:  groups[wg].rows,
		})
	}
	return result
}

// MapPoints places each city at the maximum latitude and longitude observed
// for it. Cities lacking either coordinate are left out.
func MapPoints(records []models.OrderRecord) []models.MapPoint {
	type cityGeo struct {
		lat, lng *float64
		rows     int
		revenue  float64
	}

	cities := make(map[string]*cityGeo)
	for _, rec := range records {
		c, ok := cities[rec.CustomerCity]
		if !ok {
			c = &cityGeo{}
			cities[rec.CustomerCity] = c
		}
		c.rows++
		c.revenue += rec.Price
		c.lat = maxOptional(c.lat, rec.Latitude)
		c.lng = maxOptional(c.lng, rec.Longitude)
	}

	result := make([]models.MapPoint, 0, len(cities))
	for _, city := range slices.Sorted(maps.Keys(cities)) {
		c := cities[city]
		if c.lat == nil || c.lng == nil {
			continue
		}
		result = append(result, models.MapPoint{
			City:       city,
			Latitude:   *c.lat,
			Longitude:  *c.lng,
			OrderCount: c.rows,
			Revenue:    c.revenue,
		})
	}
	return result
}

// AverageDeliveryDays is the mean of the known delivery times, nil when none is known.
func AverageDeliveryDays(records []models.OrderRecord) *float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if rec.DeliveryTime == nil {
			continue
		}
		sum += *rec.DeliveryTime
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// Metrics derives the headline numbers from the monthly table. The delivery
// average is supplied by the caller since it spans the whole dataset.
func Metrics(monthly []models.MonthlyOrders, avgDelivery *float64, currency *CurrencyFormatter) models.SummaryMetrics {
	var m models.SummaryMetrics
	for _, row := range monthly {
		m.TotalOrders += row.OrderCount
		m.TotalRevenue += row.Revenue
	}
	if currency != nil {
		m.TotalRevenueFormatted = currency.Format(m.TotalRevenue)
	}
	if avgDelivery != nil {
		avg := *avgDelivery
		rounded := int(math.RoundToEven(avg))
		m.AverageDeliveryDays = &avg
		m.AverageDeliveryRound = &rounded
	}
	return m
}

func maxOptional(current, v *float64) *float64 {
	if v == nil {
		return current
	}
	if current == nil || *v > *current {
		val := *v
		return &val
	}
	return current
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
