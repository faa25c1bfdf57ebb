package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func float(v float64) *float64 { return &v }

func createTestDashboard(t *testing.T) *services.Dashboard {
	t.Helper()
	records := []models.OrderRecord{
		{
			OrderID:        "o1",
			PurchasedAt:    time.Date(2017, 1, 15, 10, 0, 0, 0, time.UTC),
			Price:          100,
			DeliveryTime:   float(7),
			DeliveryStatus: "delivered",
			DayOfPurchase:  "Sunday",
			CustomerCity:   "sao paulo",
			Category:       "toys",
			WeightGroup:    "light",
			Latitude:       float(-23.5),
			Longitude:      float(-46.6),
		},
		{
			OrderID:        "o2",
			PurchasedAt:    time.Date(2017, 3, 2, 18, 0, 0, 0, time.UTC),
			Price:          50,
			DeliveryTime:   float(10),
			DeliveryStatus: "not delivered",
			DayOfPurchase:  "Thursday",
			CustomerCity:   "curitiba",
			Category:       "books",
			WeightGroup:    "heavy",
			Latitude:       float(-25.4),
			Longitude:      float(-49.3),
		},
	}
	d, err := services.NewDashboard(records, services.WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("NewDashboard() failed: %v", err)
	}
	return d
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return env
}

func TestNewAPIHandlers(t *testing.T) {
	d := createTestDashboard(t)
	handlers := NewAPIHandlers(d, testLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.dashboard != d {
		t.Error("NewAPIHandlers() should set dashboard field")
	}
}

func TestAPIHandlers_Endpoints(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		wantLen int
	}{
		{"monthly orders", handlers.HandleMonthlyOrders, "/api/monthly-orders", 3},
		{"day of purchase", handlers.HandleDayOfPurchase, "/api/day-of-purchase", 2},
		{"delivery status", handlers.HandleDeliveryStatus, "/api/delivery-status", 2},
		{"top cities", handlers.HandleTopCities, "/api/top-cities", 2},
		{"top categories", handlers.HandleTopCategories, "/api/top-categories", 2},
		{"weight groups", handlers.HandleWeightGroups, "/api/weight-groups", 2},
		{"map", handlers.HandleMap, "/api/map", 2},
		{"filtered to january", handlers.HandleTopCities, "/api/top-cities?start=2017-01-01&end=2017-01-31", 1},
		{"inverted range", handlers.HandleTopCities, "/api/top-cities?start=2017-04-01&end=2017-01-01", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content-type 'application/json', got %q", ct)
			}
			if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
			}

			env := decodeEnvelope(t, w)
			if !env.Success {
				t.Error("expected success=true in response")
			}

			var rows []map[string]any
			if err := json.Unmarshal(env.Data, &rows); err != nil {
				t.Fatalf("expected data array: %v", err)
			}
			if len(rows) != tt.wantLen {
				t.Errorf("expected %d rows, got %d", tt.wantLen, len(rows))
			}
		})
	}
}

func TestAPIHandlers_HandleMetrics(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?start=2017-03-01", nil)
	w := httptest.NewRecorder()
	handlers.HandleMetrics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var metrics models.SummaryMetrics
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &metrics); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}
	if metrics.TotalOrders != 1 {
		t.Errorf("expected 1 order, got %d", metrics.TotalOrders)
	}
	if metrics.TotalRevenue != 50 {
		t.Errorf("expected revenue 50, got %v", metrics.TotalRevenue)
	}
	if metrics.AverageDeliveryRound == nil || *metrics.AverageDeliveryRound != 8 {
		t.Errorf("expected rounded delivery average 8, got %v", metrics.AverageDeliveryRound)
	}
}

func TestAPIHandlers_HandleReport(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	w := httptest.NewRecorder()
	handlers.HandleReport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var rep models.Report
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &rep); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if got := rep.Range.Start.Format(time.DateOnly); got != "2017-01-15" {
		t.Errorf("expected default start 2017-01-15, got %s", got)
	}
	if got := rep.Range.End.Format(time.DateOnly); got != "2017-03-02" {
		t.Errorf("expected default end 2017-03-02, got %s", got)
	}
	if rep.Metrics.TotalOrders != 2 {
		t.Errorf("expected 2 orders, got %d", rep.Metrics.TotalOrders)
	}
}

func TestAPIHandlers_InvalidDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	for _, path := range []string{
		"/api/report?start=15-01-2017",
		"/api/report?end=yesterday",
	} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			handlers.HandleReport(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			env := decodeEnvelope(t, w)
			if env.Success {
				t.Error("expected success=false")
			}
			if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
				t.Fatalf("expected BAD_REQUEST error, got %+v", env.Error)
			}
			if !strings.Contains(env.Error.Details, "invalid") {
				t.Errorf("expected details to describe the bad date, got %q", env.Error.Details)
			}
		})
	}
}

func TestAPIHandlers_HandleMapGeoJSON(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/map.geojson", nil)
	w := httptest.NewRecorder()
	handlers.HandleMapGeoJSON(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Errorf("expected geo+json content type, got %q", ct)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.NewDecoder(w.Body).Decode(&fc); err != nil {
		t.Fatalf("failed to decode geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if fc.Features[0].Properties["customer_city"] != "curitiba" {
		t.Errorf("expected features in city order, got %v", fc.Features[0].Properties)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var health map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &health); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %v", health["status"])
	}
	if health["records"] != float64(2) {
		t.Errorf("expected 2 records, got %v", health["records"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()
	handlers.HandleStats(w, req)

	var stats map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats["first_day"] != "2017-01-15" || stats["last_day"] != "2017-03-02" {
		t.Errorf("unexpected bounds in stats: %v", stats)
	}
	if stats["currency"] != "BRL" {
		t.Errorf("expected BRL currency, got %v", stats["currency"])
	}
}
