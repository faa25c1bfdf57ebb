package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

// dateSignals mirrors the date inputs bound on the dashboard page.
type dateSignals struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *SSEHandlers) readSignals(r *http.Request) dateSignals {
	var signals dateSignals
	if r.URL.Query().Get("datastar") == "" && r.Method == http.MethodGet {
		return signals
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Warn("read signals", "error", err)
	}
	return signals
}

// HandleReport recomputes the report for the selected dates and patches every
// dashboard section in place.
func (h *SSEHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	logger := observability.RequestLogger(r.Context(), h.logger)
	signals := h.readSignals(r)

	dateRange, err := h.dashboard.ResolveRange(signals.StartDate, signals.EndDate)
	if err != nil {
		logger.Warn("invalid date range, using full range", "error", err)
		dateRange = h.dashboard.Bounds()
	}

	sse := datastar.NewSSE(w, r)
	rep := h.dashboard.Report(r.Context(), dateRange)

	for _, c := range templates.Fragments(rep, h.dashboard.Currency()) {
		var buf strings.Builder
		if err := c.Render(r.Context(), &buf); err != nil {
			logger.Error("render fragment", "error", err)
			return
		}
		if err := sse.PatchElements(buf.String()); err != nil {
			logger.Error("patch elements", "error", err)
			return
		}
	}

	jsonData, err := json.Marshal(map[string]any{
		"startDate": rep.Range.Start.Format("2006-01-02"),
		"endDate":   rep.Range.End.Format("2006-01-02"),
		"report":    rep,
	})
	if err != nil {
		logger.Error("marshal report signals", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
