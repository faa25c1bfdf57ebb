package models

import (
	"time"

	"github.com/paulmach/orb"
)

type MonthlyOrders struct {
	Month      time.Time `json:"month_start"`
	Label      string    `json:"month"`
	OrderCount int       `json:"order_count"`
	Revenue    float64   `json:"revenue"`
}

type DayOfPurchase struct {
	Day          string `json:"day_of_purchase"`
	CountOfOrder int    `json:"count_of_order"`
	Highlight    bool   `json:"highlight"`
}

type DeliveryStatusCount struct {
	Status string   `json:"delivery_status"`
	Order  int      `json:"order"`
	Share  *float64 `json:"share"`
}

type CityRevenue struct {
	City       string  `json:"customer_city"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

type CategoryRevenue struct {
	CategoryName string  `json:"category_name"`
	OrderCount   int     `json:"order_count"`
	Revenue      float64 `json:"revenue"`
}

type WeightGroupCount struct {
	WeightGroup string `json:"weight_group"`
	OrderCount  int    `json:"order_count"`
}

type MapPoint struct {
	City       string  `json:"customer_city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// Geometry returns the point in lng/lat order.
func (p MapPoint) Geometry() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

type SummaryMetrics struct {
	TotalOrders           int      `json:"total_orders"`
	TotalRevenue          float64  `json:"total_revenue"`
	TotalRevenueFormatted string   `json:"total_revenue_formatted"`
	AverageDeliveryDays   *float64 `json:"average_delivery_days"`
	AverageDeliveryRound  *int     `json:"average_delivery_days_rounded"`
}

// Report bundles every summary computed for one date range.
type Report struct {
	Range          DateRange             `json:"range"`
	Metrics        SummaryMetrics        `json:"metrics"`
	Monthly        []MonthlyOrders       `json:"monthly_orders"`
	DaysOfPurchase []DayOfPurchase       `json:"day_of_purchase"`
	DeliveryStatus []DeliveryStatusCount `json:"delivery_status"`
	TopCities      []CityRevenue         `json:"top_cities"`
	TopCategories  []CategoryRevenue     `json:"top_categories"`
	WeightGroups   []WeightGroupCount    `json:"weight_groups"`
	Map            []MapPoint            `json:"map"`
}
