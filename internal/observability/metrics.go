package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges shared by
// the generator and the dashboard API.
type Metrics struct {
	DaysSimulated    prometheus.Counter
	RowsWritten      *prometheus.CounterVec // label: sink={csv,kafka}
	ConditionDays    *prometheus.CounterVec // label: condition
	RunDuration      prometheus.Histogram
	SimulatorRunning prometheus.Gauge

	// Dashboard API metrics.
	DatasetRows     prometheus.Gauge
	PredictRequests *prometheus.CounterVec // label: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DaysSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transit_sim",
			Name:      "days_simulated_total",
			Help:      "Total calendar days simulated.",
		}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transit_sim",
			Name:      "rows_written_total",
			Help:      "Rows delivered per sink.",
		}, []string{"sink"}),
		ConditionDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transit_sim",
			Name:      "condition_days_total",
			Help:      "Simulated days per weather condition.",
		}, []string{"condition"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transit_sim",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete simulate-and-deliver run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SimulatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "transit_sim",
			Name:      "simulator_running",
			Help:      "1 while a simulation run is active, 0 otherwise.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "transit_sim",
			Name:      "dataset_rows",
			Help:      "Rows in the dataset currently served by the API.",
		}),
		PredictRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transit_sim",
			Name:      "predict_requests_total",
			Help:      "Delay prediction requests by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.DaysSimulated,
		m.RowsWritten,
		m.ConditionDays,
		m.RunDuration,
		m.SimulatorRunning,
		m.DatasetRows,
		m.PredictRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DaysSimulated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "transit_sim", Name: "days_simulated_total"}),
		RowsWritten:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transit_sim", Name: "rows_written_total"}, []string{"sink"}),
		ConditionDays:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transit_sim", Name: "condition_days_total"}, []string{"condition"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "transit_sim", Name: "run_duration_seconds"}),
		SimulatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "transit_sim", Name: "simulator_running"}),
		DatasetRows:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "transit_sim", Name: "dataset_rows"}),
		PredictRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "transit_sim", Name: "predict_requests_total"}, []string{"outcome"}),
	}
}
