package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"ecommerce-dashboard/internal/config"
)

func TestNewLoggerTo(t *testing.T) {
	t.Run("json with service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		NewLoggerTo(&buf, config.LoggerConfig{Level: "info", Format: "json"}).Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "ecommerce-dashboard", entry["service"])
		assert.NotContains(t, entry, "source")
	})

	t.Run("text filters below level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "text"})
		logger.Info("quiet")
		logger.Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "msg=loud")
	})

	t.Run("debug adds source", func(t *testing.T) {
		var buf bytes.Buffer
		NewLoggerTo(&buf, config.LoggerConfig{Level: "debug", Format: "json"}).Debug("trace me")
		assert.Contains(t, buf.String(), `"source"`)
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	RequestLogger(context.Background(), base).Info("plain")
	assert.NotContains(t, buf.String(), "request_id")

	buf.Reset()
	ctx := WithRequestID(context.Background(), "req-42")
	RequestLogger(ctx, base).Info("tagged")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Equal(t, "req-42", GetRequestID(ctx))

	buf.Reset()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01, 0x02},
		SpanID:  trace.SpanID{0x03},
	})
	RequestLogger(trace.ContextWithSpanContext(ctx, sc), base).Info("traced")
	assert.Contains(t, buf.String(), `"trace_id":"01020000000000000000000000000000"`)
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.Empty(t, TraceID(ctx))
	assert.NotPanics(t, func() {
		SetSpanError(span, errors.New("boom"))
		SetSpanError(span, nil)
	})
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.SetRecordsLoaded(1200)
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.RecordsLoaded()))

	m.ObserveRequest(http.MethodGet, "GET /api/report", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/whatever", http.StatusNotFound, time.Millisecond)
	m.ObserveReport(2*time.Millisecond, 300)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",path="GET /api/report",status="200"} 1`)
	assert.Contains(t, body, `dashboard_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "dashboard_report_filtered_rows_count 1")
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetRecordsLoaded(1)
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.ObserveReport(time.Millisecond, 1)
	})
}
