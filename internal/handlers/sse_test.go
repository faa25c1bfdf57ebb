package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ecommerce-dashboard/internal/ui/templates"
)

func TestNewSSEHandlers(t *testing.T) {
	d := createTestDashboard(t)
	logger := testLogger()

	handlers := NewSSEHandlers(d, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.dashboard != d {
		t.Error("NewSSEHandlers() should set dashboard field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func sseRequest(signals string) *http.Request {
	target := "/sse/report"
	if signals != "" {
		target += "?datastar=" + url.QueryEscape(signals)
	}
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestSSEHandlers_HandleReport(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleReport(w, sseRequest(""))

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected event stream content type, got %q", ct)
	}

	body := w.Body.String()
	if n := strings.Count(body, "event: datastar-patch-elements"); n != 8 {
		t.Errorf("expected 8 element patches, got %d", n)
	}
	for _, id := range []string{
		templates.MetricsID,
		templates.MonthlyID,
		templates.DaysID,
		templates.DeliveryID,
		templates.CitiesID,
		templates.CategoriesID,
		templates.WeightGroupsID,
		templates.MapID,
	} {
		if !strings.Contains(body, `id="`+id+`"`) {
			t.Errorf("expected fragment %q in stream", id)
		}
	}
	if !strings.Contains(body, "event: datastar-patch-signals") {
		t.Error("expected a signals patch")
	}
	if !strings.Contains(body, `"startDate":"2017-01-15"`) {
		t.Error("expected default start date in signals")
	}
}

func TestSSEHandlers_HandleReportWithSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleReport(w, sseRequest(`{"startDate":"2017-03-01","endDate":"2017-03-31"}`))

	body := w.Body.String()
	if !strings.Contains(body, `"startDate":"2017-03-01"`) {
		t.Error("expected selected start date echoed in signals")
	}
	if !strings.Contains(body, "curitiba") {
		t.Error("expected march city in stream")
	}
	if strings.Contains(body, "sao paulo") {
		t.Error("january city should be filtered out")
	}
}

func TestSSEHandlers_HandleReportInvalidSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboard(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleReport(w, sseRequest(`{"startDate":"not-a-date"}`))

	body := w.Body.String()
	if !strings.Contains(body, `"startDate":"2017-01-15"`) {
		t.Error("expected fallback to full range on invalid dates")
	}
	if !strings.Contains(body, "sao paulo") {
		t.Error("expected full range data")
	}
}
