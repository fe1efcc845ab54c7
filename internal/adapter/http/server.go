package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/transitlab/transit-weather-sim/internal/dataset"
	"github.com/transitlab/transit-weather-sim/internal/observability"
	"github.com/transitlab/transit-weather-sim/internal/sim"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	ds         *dataset.Dataset
	predictor  *dataset.Predictor
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes and the standard
// /healthz, /readyz, /metrics operational routes.
func NewServer(addr string, ready ReadinessChecker, ds *dataset.Dataset, predictor *dataset.Predictor, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ds:        ds,
		predictor: predictor,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/days", s.handleDays)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("POST /api/v1/predict", s.handlePredict)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleDays returns the day rows matching the query filters. An empty
// selection is a 200 with an empty list.
func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	days := s.ds.Filter(filter)
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(days),
		"days":  days,
	})
}

// handleSummary returns the dashboard KPIs for the filtered selection.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, dataset.Summarize(s.ds.Filter(filter)))
}

type predictRequest struct {
	Mode          string  `json:"mode"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"wind_speed"`
}

type predictResponse struct {
	Mode              string  `json:"mode"`
	PredictedDelayMin float64 `json:"predicted_delay_minutes"`
	MAE               float64 `json:"mae"`
	RMSE              float64 `json:"rmse"`
	R2                float64 `json:"r2"`
}

// handlePredict returns the fitted tree's delay estimate for one mode under
// the given weather.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.PredictRequests.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	delay, m, err := s.predictor.Predict(sim.Mode(req.Mode), req.Temperature, req.Precipitation, req.WindSpeed)
	if err != nil {
		s.metrics.PredictRequests.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.metrics.PredictRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, predictResponse{
		Mode:              req.Mode,
		PredictedDelayMin: delay,
		MAE:               m.MAE,
		RMSE:              m.RMSE,
		R2:                m.R2,
	})
}

func parseFilter(r *http.Request) (dataset.Filter, error) {
	q := r.URL.Query()
	var f dataset.Filter

	if v := q.Get("from"); v != "" {
		t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
		if err != nil {
			return f, err
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.ParseInLocation(time.DateOnly, v, time.UTC)
		if err != nil {
			return f, err
		}
		f.To = t
	}
	if v := q.Get("year"); v != "" {
		t, err := time.ParseInLocation("2006", v, time.UTC)
		if err != nil {
			return f, err
		}
		f.Year = t.Year()
	}
	f.Condition = sim.Condition(q.Get("condition"))
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
