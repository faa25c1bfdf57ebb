package server

import (
	"log/slog"
	"net/http"

	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

type Server struct {
	dashboard   *services.Dashboard
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// NewServer registers every route. metrics may be nil, in which case
// /metrics is not served.
func NewServer(dashboard *services.Dashboard, logger *slog.Logger, templateHandlers *TemplateHandlers, metrics *observability.Metrics) *Server {
	s := &Server{
		dashboard:   dashboard,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers: handlers.NewSSEHandlers(dashboard, logger),
	}
	s.setupRoutes(templateHandlers, metrics)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers, metrics *observability.Metrics) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	if metrics != nil {
		s.mux.Handle("GET /metrics", metrics.Handler())
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/report", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/metrics", s.apiHandlers.HandleMetrics)
	s.mux.HandleFunc("GET /api/monthly-orders", s.apiHandlers.HandleMonthlyOrders)
	s.mux.HandleFunc("GET /api/day-of-purchase", s.apiHandlers.HandleDayOfPurchase)
	s.mux.HandleFunc("GET /api/delivery-status", s.apiHandlers.HandleDeliveryStatus)
	s.mux.HandleFunc("GET /api/top-cities", s.apiHandlers.HandleTopCities)
	s.mux.HandleFunc("GET /api/top-categories", s.apiHandlers.HandleTopCategories)
	s.mux.HandleFunc("GET /api/weight-groups", s.apiHandlers.HandleWeightGroups)
	s.mux.HandleFunc("GET /api/map", s.apiHandlers.HandleMap)
	s.mux.HandleFunc("GET /api/map.geojson", s.apiHandlers.HandleMapGeoJSON)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/report", s.sseHandlers.HandleReport)
	s.mux.HandleFunc("POST /sse/report", s.sseHandlers.HandleReport)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
