package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"ecommerce-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

const (
	colOrderID        = "order_id"
	colPurchasedAt    = "order_purchase_timestamp"
	colPrice          = "price"
	colDeliveryTime   = "delivery_time"
	colDeliveryStatus = "delivery_status"
	colDayOfPurchase  = "day_of_purchase"
	colCustomerCity   = "customer_city"
	colCategory       = "product_category_name_english"
	colWeightGroup    = "weight_group"
	colLatitude       = "geolocation_lat"
	colLongitude      = "geolocation_lng"
)

var requiredColumns = []string{
	colOrderID, colPurchasedAt, colPrice, colDeliveryTime, colDeliveryStatus,
	colDayOfPurchase, colCustomerCity, colCategory, colWeightGroup, colLatitude, colLongitude,
}

var timestampLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.DateOnly,
}

// LoadRecords reads the orders CSV at path.
func LoadRecords(ctx context.Context, path string) ([]models.OrderRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ReadRecords(ctx, file)
}

// ReadRecords parses an orders CSV. Columns are located by header name and
// rows come back sorted by purchase timestamp.
func ReadRecords(ctx context.Context, r io.Reader) ([]models.OrderRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no records found")
	}

	records := make([]models.OrderRecord, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := parseRecord(rows[i], cols)
				if err != nil {
					// header is line 1
					return fmt.Errorf("line %d: %w", i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(records, func(a, b models.OrderRecord) int {
		return a.PurchasedAt.Compare(b.PurchasedAt)
	})
	return records, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRecord(row []string, cols map[string]int) (models.OrderRecord, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	purchasedAt, err := parseTimestamp(field(colPurchasedAt))
	if err != nil {
		return models.OrderRecord{}, err
	}

	price, err := strconv.ParseFloat(field(colPrice), 64)
	if err != nil {
		return models.OrderRecord{}, fmt.Errorf("invalid %s: %w", colPrice, err)
	}

	deliveryTime, err := parseOptionalFloat(colDeliveryTime, field(colDeliveryTime))
	if err != nil {
		return models.OrderRecord{}, err
	}
	lat, err := parseOptionalFloat(colLatitude, field(colLatitude))
	if err != nil {
		return models.OrderRecord{}, err
	}
	lng, err := parseOptionalFloat(colLongitude, field(colLongitude))
	if err != nil {
		return models.OrderRecord{}, err
	}

	return models.OrderRecord{
		OrderID:        field(colOrderID),
		PurchasedAt:    purchasedAt,
		Price:          price,
		DeliveryTime:   deliveryTime,
		DeliveryStatus: field(colDeliveryStatus),
		DayOfPurchase:  field(colDayOfPurchase),
		CustomerCity:   field(colCustomerCity),
		Category:       field(colCategory),
		WeightGroup:    field(colWeightGroup),
		Latitude:       lat,
		Longitude:      lng,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", colPurchasedAt, s)
}

func parseOptionalFloat(column, s string) (*float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", column, err)
	}
	return &v, nil
}
