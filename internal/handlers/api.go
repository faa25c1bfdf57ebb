package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// report builds the report for the start/end query parameters, writing a 400
// and returning false when they do not parse.
func (h *APIHandlers) report(w http.ResponseWriter, r *http.Request) (models.Report, bool) {
	q := r.URL.Query()
	dateRange, err := h.dashboard.ResolveRange(q.Get("start"), q.Get("end"))
	if err != nil {
		errors.WriteError(w, r, h.logger, errors.BadRequestWrap(err, "invalid date range"))
		return models.Report{}, false
	}
	return h.dashboard.Report(r.Context(), dateRange), true
}

func (h *APIHandlers) respond(w http.ResponseWriter, r *http.Request, pick func(models.Report) any) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, pick(rep), map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep })
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.Metrics })
}

func (h *APIHandlers) HandleMonthlyOrders(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.Monthly })
}

func (h *APIHandlers) HandleDayOfPurchase(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.DaysOfPurchase })
}

func (h *APIHandlers) HandleDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.DeliveryStatus })
}

func (h *APIHandlers) HandleTopCities(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.TopCities })
}

func (h *APIHandlers) HandleTopCategories(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.TopCategories })
}

func (h *APIHandlers) HandleWeightGroups(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.WeightGroups })
}

func (h *APIHandlers) HandleMap(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(rep models.Report) any { return rep.Map })
}

// HandleMapGeoJSON serves the map points as a GeoJSON FeatureCollection,
// without the success envelope so map clients can consume it directly.
func (h *APIHandlers) HandleMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}

	body, err := json.Marshal(services.MapGeoJSON(rep.Map))
	if err != nil {
		errors.WriteError(w, r, h.logger, errors.Wrap(err, errors.CodeInternal, "failed to encode map"))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   h.dashboard.Len(),
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}
