// Package http exposes the rendered map page, the summary APIs, and the
// operational endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/observability"
	"github.com/couchcryptid/accident-map/internal/pipeline"
	"github.com/couchcryptid/accident-map/internal/render"
)

// PageTitle is the heading of the rendered choropleth page.
const PageTitle = "US Car Accidents by State, 2016-2023"

// SnapshotProvider hands out the current dataset snapshot and readiness.
type SnapshotProvider interface {
	Snapshot() *pipeline.Snapshot
	CheckReadiness(ctx context.Context) error
}

// Server serves the map page, JSON APIs, and health/readiness/metrics routes.
type Server struct {
	httpServer *http.Server
	provider   SnapshotProvider
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes wired.
func NewServer(addr string, provider SnapshotProvider, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/states/{code}", s.handleState)
	mux.HandleFunc("GET /api/v1/legend", s.handleLegend)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap := s.provider.Snapshot()
	if snap == nil {
		http.Error(w, "dataset not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderPage(w, snap.PageData(PageTitle)); err != nil {
		s.logger.Error("page render failed", "error", err)
		return
	}
	s.metrics.PageRenders.Inc()
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.provider.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dataset not loaded"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"loaded_at": snap.LoadedAt.UTC(),
		"records":   snap.Records,
		"states":    snap.Summaries,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.provider.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dataset not loaded"})
		return
	}

	code := domain.NormalizeCode(r.PathValue("code"))
	summary, ok := snap.Summaries[code]
	writeJSON(w, http.StatusOK, map[string]any{
		"code":         code,
		"total_count":  summary.TotalCount,
		"avg_severity": summary.AvgSeverity,
		"has_data":     ok,
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	snap := s.provider.Snapshot()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "dataset not loaded"})
		return
	}

	metric, err := domain.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	scale := snap.CountScale
	if metric == domain.MetricSeverity {
		scale = snap.SevScale
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metric":     metric,
		"domain_lo":  scale.DomainLo,
		"domain_hi":  scale.DomainHi,
		"legend_min": scale.LegendLo,
		"legend_max": scale.LegendHi,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
