package models

import "time"

// OrderRecord is one line item of the pre-joined orders table.
type OrderRecord struct {
	OrderID        string
	PurchasedAt    time.Time
	Price          float64
	DeliveryTime   *float64
	DeliveryStatus string
	DayOfPurchase  string
	CustomerCity   string
	Category       string
	WeightGroup    string
	Latitude       *float64
	Longitude      *float64
}

// DateRange is an inclusive pair of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Empty reports whether the start day falls after the end day.
func (r DateRange) Empty() bool {
	sy, sm, sd := r.Start.Date()
	ey, em, ed := r.End.Date()
	start := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return start.After(end)
}
